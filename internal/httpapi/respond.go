// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/content"
	"github.com/inkwell/inkwell/internal/validate"
)

// uniformTokenMessage is returned for every auth gate failure. The real
// cause (missing, malformed, bad signature, expired) is logged but never
// echoed to the client.
const uniformTokenMessage = "invalid/expired token"

// envelope is the uniform response body. Data carries payloads; on
// validation failure it holds [{errors: {field: message}}].
type envelope struct {
	Status  bool   `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type fieldErrors struct {
	Errors map[string]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("response write failed", "error", err)
	}
}

// respondData writes a success envelope with a payload.
func respondData(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Status: true, Code: code, Message: message, Data: data})
}

// respondToken writes a success envelope carrying an auth token.
func respondToken(w http.ResponseWriter, code int, message, token string, data any) {
	writeJSON(w, code, envelope{Status: true, Code: code, Message: message, Token: token, Data: data})
}

// respondValidation writes the aggregated field errors for a failed
// validation run.
func respondValidation(w http.ResponseWriter, result *validate.Result) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Status: false,
		Code:   http.StatusBadRequest,
		Data:   []fieldErrors{{Errors: result.Errors()}},
	})
}

// respondUnauthorized writes the uniform 401 body.
func respondUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, envelope{
		Status:  false,
		Code:    http.StatusUnauthorized,
		Message: uniformTokenMessage,
	})
}

func respondError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Status: false, Code: code, Message: message})
}

// respondServiceError maps a domain error onto an HTTP response. Store
// failures surface as a generic 500 with the detail kept in the logs.
func respondServiceError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error, conflictMessage string) {
	switch {
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, content.ErrNotFound):
		respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, auth.ErrConflict), errors.Is(err, content.ErrConflict):
		if conflictMessage == "" {
			conflictMessage = "resource already exists"
		}
		respondError(w, http.StatusBadRequest, conflictMessage)
	default:
		logger.ErrorContext(ctx, "request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
