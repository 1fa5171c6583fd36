// Package mail implements the outbound-mail collaborator over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"classrank/config"
	domainerrors "classrank/internal/domain/errors"
	"classrank/internal/domain/service"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// smtpMailer sends verification mail through a gomail SMTP dialer.
type smtpMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
	logger  *slog.Logger
}

// NewSMTPMailer is the constructor for smtpMailer. Missing transport
// credentials are tolerated at construction so the service can boot in
// development; dispatch refuses to proceed without them.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	mailer := &smtpMailer{logger: logger}
	if cfg.SMTP == nil {
		return mailer
	}

	mailer.from = cfg.SMTP.From
	mailer.baseURL = strings.TrimRight(cfg.SMTP.BaseURL, "/")
	if cfg.SMTP.Host != "" && cfg.SMTP.Username != "" && cfg.SMTP.Password != "" {
		mailer.dialer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	}

	return mailer
}

// SendVerificationEmail delivers a verification link embedding the raw token.
// The token itself is never logged.
func (m *smtpMailer) SendVerificationEmail(_ context.Context, toAddress, rawToken string) error {
	if m.dialer == nil {
		return domainerrors.ErrMailerNotConfigured.WrapMessage("smtp transport credentials are absent")
	}

	link := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, url.QueryEscape(rawToken))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toAddress)
	msg.SetHeader("Subject", "Verify your ClassRank email address")
	msg.SetBody("text/html", fmt.Sprintf(`
		<h2>Welcome to ClassRank!</h2>
		<p>Click the link below to verify your email address. The link is valid for 24 hours and can be used once.</p>
		<p><a href="%s">Verify my email</a></p>
		<p>If you did not create a ClassRank account, you can ignore this email.</p>
	`, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send verification email", slog.String("to", toAddress), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrMailDeliveryFailed, "failed to send verification email")
	}

	return nil
}
