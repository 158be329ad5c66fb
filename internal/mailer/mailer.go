// Package mailer delivers transactional email over SMTP. Message bodies are
// rendered from embedded HTML templates so no markup lives in the lifecycle
// code.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/shiftdesk-dev/shiftdesk/internal/config"
)

// Sender delivers the two transactional messages the account lifecycle needs.
type Sender interface {
	SendVerification(to, link string) error
	SendPasswordReset(to, link string) error
}

type SMTPClient struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	SiteName string
}

func NewSMTPClient(cfg *config.Config) *SMTPClient {
	return &SMTPClient{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.FromEmail,
		SiteName: cfg.SiteName,
	}
}

func (s *SMTPClient) SendVerification(to, link string) error {
	body, err := renderVerification(s.SiteName, link)
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Verify Your Email - %s", s.SiteName), body)
}

func (s *SMTPClient) SendPasswordReset(to, link string) error {
	body, err := renderPasswordReset(s.SiteName, link)
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("%s Password Reset", s.SiteName), body)
}

func (s *SMTPClient) send(to, subject, body string) error {
	if s == nil || s.Host == "" || s.User == "" {
		return fmt.Errorf("smtp not configured")
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" + body + "\r\n")
	return smtp.SendMail(addr, auth, s.From, []string{to}, msg)
}
