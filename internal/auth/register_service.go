// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// RegisterService handles account creation.
type RegisterService struct {
	users    UserRepository
	profiles ProfileRepository
	settings SettingsRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	mailer   LinkMailer
	baseURL  string
	logger   *slog.Logger
}

// NewRegisterService creates a new RegisterService.
func NewRegisterService(
	users UserRepository,
	profiles ProfileRepository,
	settings SettingsRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer LinkMailer,
	baseURL string,
	logger *slog.Logger,
) (*RegisterService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if profiles == nil {
		return nil, oops.Errorf("profiles repository is required")
	}
	if settings == nil {
		return nil, oops.Errorf("settings repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if mailer == nil {
		return nil, oops.Errorf("mailer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterService{
		users:    users,
		profiles: profiles,
		settings: settings,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		baseURL:  baseURL,
		logger:   logger,
	}, nil
}

// Registration carries validated registration input.
type Registration struct {
	Email    string
	Password string
	Username string
}

// RegisteredUser is the result of a successful registration.
type RegisteredUser struct {
	User    *User
	Profile *Profile
	Token   string
}

// Register creates the user with its empty profile and default settings,
// issues an identity token, and dispatches the confirmation email.
// The caller receives the identity token immediately; mail delivery happens
// in the background and never blocks or fails the registration.
func (s *RegisterService) Register(ctx context.Context, reg Registration) (*RegisteredUser, error) {
	// A client disconnect must not cancel the create sequence midway and
	// leave a user row without its profile or settings.
	ctx = context.WithoutCancel(ctx)

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(reg.Email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	profile, err := NewProfile(user.ID, reg.Username)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create profile").
			Wrap(err)
	}

	if err := s.settings.Create(ctx, DefaultSettings(user.ID)); err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create settings").
			Wrap(err)
	}

	identity, err := s.tokens.IssueIdentity(user.ID, user.Email)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "issue identity token").
			Wrap(err)
	}

	confirm, err := s.tokens.IssueConfirm(user.Email)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "issue confirm token").
			Wrap(err)
	}

	link := s.baseURL + "/api/v1/users/confirm_account?token=" + confirm

	// Fire-and-forget: the response must not be blocked on mail delivery.
	// A fresh context keeps the send alive after the request completes.
	go func() {
		if err := s.mailer.SendConfirmation(context.Background(), user.Email, link); err != nil {
			s.logger.Error("confirmation mail dispatch failed",
				"email", user.Email, "error", err)
		}
	}()

	return &RegisteredUser{User: user, Profile: profile, Token: identity}, nil
}
