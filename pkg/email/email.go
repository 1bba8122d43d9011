package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ddipendrac/mystery-message/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. Kept narrow so services can be tested
// against a mock.
type Mailer interface {
	SendVerificationCode(to, username, code string) error
}

// SMTPMailer delivers mail through an SMTP relay via gomail.
type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	templates *template.Template
}

const verificationTemplate = `
<h2>Hello {{.Username}},</h2>
<p>Thank you for registering. Use the following verification code to complete your sign-up:</p>
<h3>{{.Code}}</h3>
<p>This code expires in one hour. If you did not request this code, please ignore this email.</p>
`

type verificationData struct {
	Username string
	Code     string
}

// NewSMTPMailer builds a Mailer from the SMTP settings in the config.
func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("missing SMTP_HOST configuration")
	}

	tmpl, err := template.New("verification").Parse(verificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %v", err)
	}

	return &SMTPMailer{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:      cfg.SMTPFrom,
		templates: tmpl,
	}, nil
}

// SendVerificationCode emails a one-time verification code to a new or
// re-registering user.
func (m *SMTPMailer) SendVerificationCode(to, username, code string) error {
	var body bytes.Buffer
	if err := m.templates.Execute(&body, verificationData{Username: username, Code: code}); err != nil {
		return fmt.Errorf("failed to render verification email: %v", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Mystery Message | Verification code")
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %v", err)
	}
	return nil
}
