package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the outbound mail settings. A mailer is considered
// configured only when host, user and password are all present.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// ErrNotConfigured is returned by Send on a mailer without SMTP settings.
var ErrNotConfigured = errors.New("smtp is not configured")

// SMTPMailer sends HTML mail over SMTP with STARTTLS when offered.
type SMTPMailer struct {
	cfg    SMTPConfig
	client *mail.Client
	logger *slog.Logger
}

// NewSMTPMailer builds a mailer. Missing settings yield a mailer whose
// Configured reports false; it never fails construction.
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg, logger: logger}
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("SMTP not configured. Email sending disabled.")
		return m
	}
	if m.cfg.From == "" {
		m.cfg.From = cfg.User
	}
	if m.cfg.Port == 0 {
		m.cfg.Port = 587
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		logger.Error("Failed to create SMTP client, email sending disabled", slog.String("error", err.Error()))
		return m
	}
	m.client = client
	logger.Info("SMTP configured", slog.String("host", cfg.Host), slog.Int("port", m.cfg.Port), slog.String("user", cfg.User))
	return m
}

func (m *SMTPMailer) Configured() bool {
	return m != nil && m.client != nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("RT-SYR", m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
