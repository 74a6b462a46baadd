// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package main

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/inkwell/inkwell/internal/auth"
	authpg "github.com/inkwell/inkwell/internal/auth/postgres"
	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/content"
	contentpg "github.com/inkwell/inkwell/internal/content/postgres"
	"github.com/inkwell/inkwell/internal/httpapi"
	"github.com/inkwell/inkwell/internal/mail"
	"github.com/inkwell/inkwell/internal/observability"
	"github.com/inkwell/inkwell/internal/store"
	"github.com/inkwell/inkwell/internal/token"
)

// application bundles the wired servers and shared state for serve.
type application struct {
	pool          *pgxpool.Pool
	api           *httpapi.Server
	observability *observability.Server
	ready         atomic.Bool
}

// buildApp connects the database and wires repositories, services, and
// both servers.
func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	users := authpg.NewUserRepository(pool)
	profiles := authpg.NewProfileRepository(pool)
	settings := authpg.NewSettingsRepository(pool)
	articles := contentpg.NewArticleRepository(pool)
	categories := contentpg.NewCategoryRepository(pool)
	ratings := contentpg.NewRatingRepository(pool)
	likes := contentpg.NewLikeRepository(pool)
	reports := contentpg.NewReportRepository(pool)

	tokens, err := token.NewService(
		cfg.Token.Secret,
		cfg.Token.IdentityTTL,
		cfg.Token.ConfirmTTL,
		cfg.Token.ResetTTL,
	)
	if err != nil {
		pool.Close()
		return nil, err
	}

	mailer, err := buildMailer(cfg.Mail, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	hasher := auth.NewArgon2idHasher()

	register, err := auth.NewRegisterService(
		users, profiles, settings, hasher, tokens, mailer, cfg.HTTP.BaseURL, logger,
	)
	if err != nil {
		pool.Close()
		return nil, err
	}
	login, err := auth.NewLoginService(users, hasher, tokens)
	if err != nil {
		pool.Close()
		return nil, err
	}
	recovery, err := auth.NewRecoveryService(
		users, hasher, tokens, mailer, cfg.HTTP.BaseURL, logger,
	)
	if err != nil {
		pool.Close()
		return nil, err
	}
	confirm, err := auth.NewConfirmService(users)
	if err != nil {
		pool.Close()
		return nil, err
	}

	contentSvc, err := content.NewService(articles, categories, ratings, likes, reports, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	app := &application{pool: pool}
	app.observability = observability.NewServer(cfg.HTTP.MetricsAddr, func() bool {
		return app.ready.Load() && pool.Ping(context.Background()) == nil
	})

	app.api, err = httpapi.NewServer(cfg.HTTP.Addr, httpapi.Deps{
		Register: register,
		Login:    login,
		Recovery: recovery,
		Confirm:  confirm,
		Users:    users,
		Profiles: profiles,
		Articles: contentSvc,
		Tokens:   tokens,
		Metrics:  app.observability.Metrics(),
		Logger:   logger,
	})
	if err != nil {
		pool.Close()
		return nil, oops.With("operation", "build api server").Wrap(err)
	}

	return app, nil
}

// buildMailer returns the SMTP-backed mail service, or a log-only one
// when no SMTP host is configured.
func buildMailer(cfg config.MailConfig, logger *slog.Logger) (auth.LinkMailer, error) {
	var sender mail.Sender
	if cfg.Host == "" {
		sender = mail.NewLogSender(logger)
	} else {
		smtp, err := mail.NewSMTPSender(mail.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			From:     cfg.From,
		})
		if err != nil {
			return nil, err
		}
		sender = smtp
	}

	svc, err := mail.NewService(sender, logger)
	if err != nil {
		return nil, err
	}
	return &meteredMailer{svc: svc}, nil
}

// meteredMailer counts dispatch failures so the async send goroutines
// show up in metrics, not just logs.
type meteredMailer struct {
	svc *mail.Service
}

func (m *meteredMailer) SendConfirmation(ctx context.Context, email, link string) error {
	if err := m.svc.SendConfirmation(ctx, email, link); err != nil {
		observability.RecordMailDispatchFailure("confirmation")
		return err
	}
	return nil
}

func (m *meteredMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	if err := m.svc.SendPasswordReset(ctx, email, link); err != nil {
		observability.RecordMailDispatchFailure("reset")
		return err
	}
	return nil
}
