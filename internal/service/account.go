// Package service contains the business logic. AccountService is the account
// lifecycle manager: it orchestrates signup, verification, login, password
// recovery, and email updates over the user repository, using opaque tokens
// and the notification sender.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shiftdesk-dev/shiftdesk/internal/auth"
	"github.com/shiftdesk-dev/shiftdesk/internal/config"
	"github.com/shiftdesk-dev/shiftdesk/internal/mailer"
	"github.com/shiftdesk-dev/shiftdesk/internal/models"
	"github.com/shiftdesk-dev/shiftdesk/internal/repository"
)

type SignupInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
	Email     string
}

type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	ForgotPassword(ctx context.Context, email string) (*models.User, error)
	ResetPassword(ctx context.Context, token, username, newPassword string) (*models.User, error)
	UpdateEmail(ctx context.Context, userID uint, currentPassword, newEmail string) (*models.User, error)
}

type accountService struct {
	users  repository.UserRepository
	sender mailer.Sender
	cfg    *config.Config
}

func NewAccountService(users repository.UserRepository, sender mailer.Sender, cfg *config.Config) AccountService {
	return &accountService{users: users, sender: sender, cfg: cfg}
}

// Signup creates an unverified user and emails a verification link. The user
// record is persisted before the send, so a delivery failure leaves an
// unverified account behind while the whole call is reported failed.
func (s *accountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	username := normalize(in.Username)
	email := normalize(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	token, err := auth.MintOpaqueToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:          username,
		FirstName:         normalize(in.FirstName),
		LastName:          normalize(in.LastName),
		Email:             email,
		PasswordHash:      hash,
		VerificationToken: token,
		IsVerified:        false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/verify-email/%s", s.cfg.FrontendURL, token)
	if err := s.sender.SendVerification(user.Email, link); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailure, err)
	}

	return user, nil
}

// VerifyEmail consumes a verification token. A token that was never issued
// and one that was already consumed both fail the same way.
func (s *accountService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a signed session token. A missing user
// and a wrong password are distinct kinds internally; the handler presents
// them identically to avoid username enumeration.
func (s *accountService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	username = normalize(username)

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}

	if !user.IsVerified {
		return "", nil, ErrNotVerified
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrBadCredential
	}

	token, err := auth.GenerateSessionToken(user.Username, []byte(s.cfg.Secret), s.cfg.SessionTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// ForgotPassword stamps a fresh reset token and emails a reset link. The
// token is persisted before the send is attempted; a delivery failure leaves
// it in place.
func (s *accountService) ForgotPassword(ctx context.Context, email string) (*models.User, error) {
	email = normalize(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	token, err := auth.MintOpaqueToken()
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now()
	if err := s.users.SetResetToken(ctx, email, token, issuedAt); err != nil {
		return nil, err
	}
	user.ResetToken = token
	user.ResetTokenIssuedAt = issuedAt

	link := fmt.Sprintf("%s/forgotpassword/%s", s.cfg.FrontendURL, token)
	if err := s.sender.SendPasswordReset(user.Email, link); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailure, err)
	}

	return user, nil
}

// ResetPassword validates the link token against the stored one and, within
// the reset window, stores the new password hash. Every failure path consumes
// the stored token: a reset link is single-use regardless of outcome.
func (s *accountService) ResetPassword(ctx context.Context, token, username, newPassword string) (*models.User, error) {
	username = normalize(username)

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.ResetToken == "" || user.ResetToken != token {
		if err := s.users.ClearResetToken(ctx, username); err != nil {
			return nil, err
		}
		return nil, ErrTokenMismatch
	}

	elapsed := time.Since(user.ResetTokenIssuedAt)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	if elapsed > s.cfg.ResetWindow {
		if err := s.users.ClearResetToken(ctx, username); err != nil {
			return nil, err
		}
		return nil, ErrTokenExpired
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.ConsumePasswordReset(ctx, username, token, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race: another attempt consumed the token first.
			return nil, ErrTokenMismatch
		}
		return nil, err
	}

	return updated, nil
}

// UpdateEmail overwrites the email after re-checking the current password.
// Uniqueness of the new email is left to the store-level constraint.
func (s *accountService) UpdateEmail(ctx context.Context, userID uint, currentPassword, newEmail string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, currentPassword); err != nil {
		return nil, ErrBadCredential
	}

	updated, err := s.users.UpdateEmail(ctx, userID, strings.ToLower(newEmail))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return updated, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
