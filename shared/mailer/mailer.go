// Package mailer delivers transactional email over SMTP. It is the
// notification sink for enrollment and password reset events.
package mailer

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer represents an email sender.
type Mailer struct {
	config *mailerConfig
	dialer *gomail.Dialer
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// NewMailer creates a new Mailer instance configured from the environment.
func NewMailer(logger *zerolog.Logger) *Mailer {
	cfg := newMailerConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Mailer configuration")
	}

	dialer := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
	)

	return &Mailer{
		config: cfg,
		dialer: dialer,
	}
}

// Send sends a single email.
func (m *Mailer) Send(email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	return m.dialer.DialAndSend(msg)
}

// SendPasswordResetEmail sends the password reset link to the user.
func (m *Mailer) SendPasswordResetEmail(email, resetURL string, ttl time.Duration) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>East Bay Academics</p>
	`, resetURL, resetURL, ttl)

	return m.Send(Email{
		To:       []string{email},
		Subject:  "[Summer 2020] Reset Your Password",
		Body:     fmt.Sprintf("Reset your password within %s: %s", ttl, resetURL),
		HTMLBody: htmlBody,
	})
}

// SendRegisteredEmail notifies the admin address that a client signed up for
// a class.
func (m *Mailer) SendRegisteredEmail(username, className string) error {
	return m.Send(Email{
		To:      []string{m.config.AdminEmail},
		Subject: "[Summer 2020] New Client Register",
		Body:    fmt.Sprintf("%s registered for %s.", username, className),
	})
}

// SendUnregisteredEmail notifies the admin address that a client dropped a
// class.
func (m *Mailer) SendUnregisteredEmail(username, className string) error {
	return m.Send(Email{
		To:      []string{m.config.AdminEmail},
		Subject: "[Summer 2020] Client Unregister",
		Body:    fmt.Sprintf("%s unregistered from %s.", username, className),
	})
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}

// mailerConfig holds SMTP configuration for sending emails.
type mailerConfig struct {
	Host       string `env:"SMTP_HOST"`
	Port       int    `env:"SMTP_PORT"`
	Username   string `env:"SMTP_USERNAME"`
	Password   string `env:"SMTP_PASSWORD"`
	From       string `env:"SMTP_FROM"`
	AdminEmail string `env:"ADMIN_EMAIL"`
}

// newMailerConfig creates a mailerConfig instance from environment variables.
func newMailerConfig(logger *zerolog.Logger) *mailerConfig {
	cfg, err := env.ParseAs[mailerConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the Mailer configuration is valid.
func (c *mailerConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}
	if c.AdminEmail == "" {
		return fmt.Errorf("missing ADMIN_EMAIL environment variable")
	}

	return nil
}
