// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/validate"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type registeredUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Confirmed bool   `json:"confirmed"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	set := validate.Registration(s.emailExists, s.usernameExists)
	in := validate.Input{
		validate.FieldEmail:    req.Email,
		validate.FieldPassword: req.Password,
		validate.FieldUsername: req.Username,
	}
	if !s.runValidation(w, r, set, in) {
		return
	}

	// Validation trims email and username in place; persist the trimmed
	// forms so lookups against the stored values match later logins.
	registered, err := s.register.Register(r.Context(), auth.Registration{
		Email:    in[validate.FieldEmail],
		Password: req.Password,
		Username: in[validate.FieldUsername],
	})
	if err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "email or username already exists")
		return
	}

	if s.metrics != nil {
		s.metrics.RegistrationsTotal.Inc()
	}
	respondToken(w, http.StatusCreated, "user registered successfully", registered.Token, registeredUser{
		ID:        registered.User.ID.String(),
		Email:     registered.User.Email,
		Username:  registered.Profile.Username,
		Confirmed: registered.User.Confirmed,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	user, signed, err := s.login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		// Credential and lockout failures share one message to avoid
		// confirming which emails hold accounts.
		s.logger.DebugContext(r.Context(), "login rejected", "error", err)
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}
	respondToken(w, http.StatusOK, "login successful", signed, registeredUser{
		ID:        user.ID.String(),
		Email:     user.Email,
		Confirmed: user.Confirmed,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	set := validate.ForgotPassword(s.emailExists)
	in := validate.Input{validate.FieldEmail: req.Email}
	if !s.runValidation(w, r, set, in) {
		return
	}

	if err := s.recovery.RequestReset(r.Context(), in[validate.FieldEmail]); err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusOK, "password reset link sent", nil)
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// handleResetPassword runs behind the auth gate with a reset claim; the
// target account comes from the verified claim, never the body.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	in := validate.Input{
		validate.FieldPassword:        req.Password,
		validate.FieldConfirmPassword: req.ConfirmPassword,
	}
	if !s.runValidation(w, r, validate.ResetPassword(), in) {
		return
	}

	if err := s.recovery.ResetPassword(r.Context(), identity.Email, req.Password); err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusOK, "password reset successfully", nil)
}

// handleConfirmAccount runs behind the auth gate with a confirm claim.
func (s *Server) handleConfirmAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondUnauthorized(w)
		return
	}

	if err := s.confirm.Confirm(r.Context(), identity.Email); err != nil {
		respondServiceError(r.Context(), w, s.logger, err, "")
		return
	}
	respondData(w, http.StatusOK, "account confirmed successfully", nil)
}
