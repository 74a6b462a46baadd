// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkwell/inkwell/internal/token"
)

// bearerToken extracts the credential from the Authorization header, or
// from the token query parameter for link-driven flows (confirmation and
// reset links arrive as plain GETs from a mail client).
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if value, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(value)
	}
	if header != "" {
		return strings.TrimSpace(header)
	}
	return r.URL.Query().Get("token")
}

// authGate verifies the request's token before handing off to next. The
// identity from the claim is attached to the request context. want
// narrows the accepted claim purpose; token.PurposeIdentity for normal
// endpoints. Every failure yields the same 401 body.
func (s *Server) authGate(want token.Purpose, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		credential := bearerToken(r)
		if credential == "" {
			respondUnauthorized(w)
			return
		}

		claims, err := s.tokens.VerifyPurpose(credential, want)
		if err != nil {
			s.logger.DebugContext(r.Context(), "token rejected", "error", err)
			respondUnauthorized(w)
			return
		}

		identity := Identity{Email: claims.Email}
		if claims.UserID != "" {
			userID, err := ulid.Parse(claims.UserID)
			if err != nil {
				s.logger.DebugContext(r.Context(), "token carries invalid user id", "error", err)
				respondUnauthorized(w)
				return
			}
			identity.UserID = userID
		}

		next(w, r.WithContext(withIdentity(r.Context(), identity)))
	}
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request logging and Prometheus
// metrics. route is the registered pattern, not the raw URL, to keep
// label cardinality bounded.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r)

		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.RequestsTotal.
				WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).
				Inc()
			s.metrics.RequestDuration.
				WithLabelValues(r.Method, route).
				Observe(elapsed.Seconds())
		}
		s.logger.InfoContext(r.Context(), "request handled",
			"method", r.Method,
			"route", route,
			"status", recorder.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
