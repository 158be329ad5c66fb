package mailer

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type emailData struct {
	SiteName string
	Link     string
}

func render(name, siteName, link string) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, name, emailData{SiteName: siteName, Link: link})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderVerification(siteName, link string) (string, error) {
	return render("verify_email.html", siteName, link)
}

func renderPasswordReset(siteName, link string) (string, error) {
	return render("reset_password.html", siteName, link)
}
