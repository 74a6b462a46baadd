// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package httpapi exposes the REST API: account registration and login,
// password recovery, account confirmation, profiles, and articles.
//
// Every mutating endpoint runs its declarative validation set before any
// business logic; protected endpoints additionally pass the auth gate,
// which attaches the verified caller identity to the request context.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/content"
	"github.com/inkwell/inkwell/internal/observability"
	"github.com/inkwell/inkwell/internal/token"
	"github.com/inkwell/inkwell/internal/validate"
)

// Server serves the REST API.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool

	register *auth.RegisterService
	login    *auth.LoginService
	recovery *auth.RecoveryService
	confirm  *auth.ConfirmService
	users    auth.UserRepository
	profiles auth.ProfileRepository
	articles *content.Service
	tokens   *token.Service
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// Deps bundles the collaborators the server dispatches to.
type Deps struct {
	Register *auth.RegisterService
	Login    *auth.LoginService
	Recovery *auth.RecoveryService
	Confirm  *auth.ConfirmService
	Users    auth.UserRepository
	Profiles auth.ProfileRepository
	Articles *content.Service
	Tokens   *token.Service
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// NewServer creates the API server.
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Register == nil {
		return nil, oops.Errorf("register service is required")
	}
	if deps.Login == nil {
		return nil, oops.Errorf("login service is required")
	}
	if deps.Recovery == nil {
		return nil, oops.Errorf("recovery service is required")
	}
	if deps.Confirm == nil {
		return nil, oops.Errorf("confirm service is required")
	}
	if deps.Users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if deps.Profiles == nil {
		return nil, oops.Errorf("profile repository is required")
	}
	if deps.Articles == nil {
		return nil, oops.Errorf("content service is required")
	}
	if deps.Tokens == nil {
		return nil, oops.Errorf("token service is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	return &Server{
		addr:     addr,
		register: deps.Register,
		login:    deps.Login,
		recovery: deps.Recovery,
		confirm:  deps.Confirm,
		users:    deps.Users,
		profiles: deps.Profiles,
		articles: deps.Articles,
		tokens:   deps.Tokens,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.instrument(pattern, h))
	}
	identity := func(h http.HandlerFunc) http.HandlerFunc {
		return s.authGate(token.PurposeIdentity, h)
	}

	route("POST /api/v1/users", s.handleRegister)
	route("POST /api/v1/users/login", s.handleLogin)
	route("POST /api/v1/users/forgot_password", s.handleForgotPassword)
	route("PATCH /api/v1/users/reset_password", s.authGate(token.PurposeReset, s.handleResetPassword))
	route("GET /api/v1/users/confirm_account", s.authGate(token.PurposeConfirm, s.handleConfirmAccount))

	route("GET /api/v1/profiles", identity(s.handleListProfiles))
	route("GET /api/v1/profiles/{username}", identity(s.handleGetProfile))
	// Profiles are created empty at registration; POST fills one in just
	// like PATCH does.
	route("POST /api/v1/profiles", identity(s.handleUpdateProfile))
	route("PATCH /api/v1/profiles", identity(s.handleUpdateProfile))

	route("GET /api/v1/articles", s.handleListArticles)
	route("GET /api/v1/articles/search", s.handleListArticles)
	route("GET /api/v1/articles/{slug}", s.handleGetArticle)
	route("POST /api/v1/articles", identity(s.handleCreateArticle))
	route("POST /api/v1/articles/{slug}/ratings", identity(s.handleRateArticle))
	route("POST /api/v1/articles/{slug}/likes", identity(s.handleLikeArticle))
	route("POST /api/v1/articles/{slug}/dislikes", identity(s.handleDislikeArticle))
	route("POST /api/v1/articles/{slug}/reports", identity(s.handleReportArticle))

	return mux
}

// Start begins serving the API. The returned channel receives any serve
// error and is closed on graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the bound listen address, or "" when not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// emailExists reports whether an account with the email exists. Lookup
// failures propagate so they are never mistaken for absence.
func (s *Server) emailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// usernameExists reports whether a profile with the username exists.
func (s *Server) usernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// runValidation executes a validation set and writes the failure
// responses. It reports whether the handler may proceed.
func (s *Server) runValidation(w http.ResponseWriter, r *http.Request, set validate.Set, in validate.Input) bool {
	result, err := set.Run(r.Context(), in)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "validation lookup failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong, please try again")
		return false
	}
	if !result.Valid() {
		respondValidation(w, result)
		return false
	}
	return true
}
