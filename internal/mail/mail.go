// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package mail renders and delivers the transactional emails sent around
// account lifecycle events: confirmation links after registration and
// password-reset links. Delivery is SMTP with a short exponential-backoff
// retry; callers treat sends as fire-and-forget and must not block a
// response on them.
package mail

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers rendered messages. Satisfied by *SMTPSender; tests
// substitute a recorder.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender delivers mail over SMTP with retries on transient failures.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender builds an SMTP sender from config.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("smtp host cannot be empty")
	}
	if cfg.From == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("from address cannot be empty")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(10 * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, oops.Code("MAIL_CONFIG_INVALID").
			With("host", cfg.Host).
			Wrap(err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send delivers one message, retrying transient SMTP failures up to
// three times with exponential backoff.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("from", s.from).Wrap(err)
	}
	if err := msg.To(to); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("to", to).Wrap(err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("to", to).
			With("subject", subject).
			Wrap(err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
// Used when no SMTP host is configured, typically in development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender builds a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the message instead of delivering it.
func (s *LogSender) Send(ctx context.Context, to, subject, _ string) error {
	s.logger.InfoContext(ctx, "mail delivery skipped, no smtp host configured",
		"to", to,
		"subject", subject,
	)
	return nil
}

// Service renders link emails and hands them to a Sender. It satisfies
// the account services' mailer contract.
type Service struct {
	sender    Sender
	templates *template.Template
	logger    *slog.Logger
}

// NewService builds the mail service, parsing the embedded templates.
func NewService(sender Sender, logger *slog.Logger) (*Service, error) {
	if sender == nil {
		return nil, oops.Errorf("sender is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, oops.Code("MAIL_TEMPLATE_INVALID").Wrap(err)
	}
	return &Service{sender: sender, templates: tmpl, logger: logger}, nil
}

type linkContext struct {
	Link string
}

// SendConfirmation delivers the account-confirmation email.
func (s *Service) SendConfirmation(ctx context.Context, email, link string) error {
	return s.sendLink(ctx, email, "Confirm your Inkwell account", "confirm.html", link)
}

// SendPasswordReset delivers the password-reset email.
func (s *Service) SendPasswordReset(ctx context.Context, email, link string) error {
	return s.sendLink(ctx, email, "Reset your Inkwell password", "reset.html", link)
}

func (s *Service) sendLink(ctx context.Context, email, subject, tmplName, link string) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, tmplName, linkContext{Link: link}); err != nil {
		return oops.Code("MAIL_TEMPLATE_INVALID").
			With("template", tmplName).
			Wrap(err)
	}
	if err := s.sender.Send(ctx, email, subject, body.String()); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "mail dispatched",
		"to", email,
		"subject", subject,
	)
	return nil
}
