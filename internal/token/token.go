// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package token issues and verifies the signed, time-limited credentials
// used by the HTTP layer: identity tokens for logged-in users and
// single-purpose email claims for account confirmation and password reset.
//
// Verification failures carry distinct error codes internally
// (TOKEN_MALFORMED, TOKEN_SIGNATURE, TOKEN_EXPIRED) so callers can log the
// real cause; the HTTP layer reports a single uniform message to clients
// regardless of which check failed.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Purpose restricts what a claim may be used for.
type Purpose string

// Claim purposes.
const (
	PurposeIdentity Purpose = "identity"
	PurposeConfirm  Purpose = "confirm"
	PurposeReset    Purpose = "reset"
)

// Claims is the payload embedded in a signed token. Identity tokens carry
// both user ID and email; single-purpose claims carry only the email.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string  `json:"user_id,omitempty"`
	Email   string  `json:"email"`
	Purpose Purpose `json:"purpose"`
}

// Service issues and verifies tokens with an HMAC-SHA256 signature.
type Service struct {
	secret      []byte
	identityTTL time.Duration
	confirmTTL  time.Duration
	resetTTL    time.Duration
	now         func() time.Time
}

// NewService creates a token Service. The secret must be non-empty; TTLs
// of zero fall back to sensible defaults (24h identity/confirm, 1h reset).
func NewService(secret string, identityTTL, confirmTTL, resetTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, oops.Code("TOKEN_NO_SECRET").Errorf("signing secret cannot be empty")
	}
	if identityTTL <= 0 {
		identityTTL = 24 * time.Hour
	}
	if confirmTTL <= 0 {
		confirmTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Service{
		secret:      []byte(secret),
		identityTTL: identityTTL,
		confirmTTL:  confirmTTL,
		resetTTL:    resetTTL,
		now:         time.Now,
	}, nil
}

// WithClock overrides the time source. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueIdentity issues an identity token for a user.
func (s *Service) IssueIdentity(userID ulid.ULID, email string) (string, error) {
	return s.issue(Claims{
		UserID:  userID.String(),
		Email:   email,
		Purpose: PurposeIdentity,
	}, s.identityTTL)
}

// IssueConfirm issues an account-confirmation claim for an email address.
func (s *Service) IssueConfirm(email string) (string, error) {
	return s.issue(Claims{Email: email, Purpose: PurposeConfirm}, s.confirmTTL)
}

// IssueReset issues a password-reset claim for an email address.
func (s *Service) IssueReset(email string) (string, error) {
	return s.issue(Claims{Email: email, Purpose: PurposeReset}, s.resetTTL)
}

func (s *Service) issue(claims Claims, ttl time.Duration) (string, error) {
	if claims.Email == "" {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("claim email cannot be empty")
	}
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").
			With("purpose", string(claims.Purpose)).
			Wrap(err)
	}
	return signed, nil
}

// Verify parses and verifies a token, returning its claims.
// The returned error carries one of three codes: TOKEN_MALFORMED,
// TOKEN_SIGNATURE, or TOKEN_EXPIRED. Callers exposed to clients must not
// echo these distinctions; see the httpapi auth gate.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, oops.Code("TOKEN_MALFORMED").Errorf("token cannot be empty")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, oops.Code("TOKEN_EXPIRED").Wrap(err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, oops.Code("TOKEN_SIGNATURE").Wrap(err)
		default:
			return nil, oops.Code("TOKEN_MALFORMED").Wrap(err)
		}
	}

	if claims.Email == "" {
		return nil, oops.Code("TOKEN_MALFORMED").Errorf("claim email missing")
	}
	return &claims, nil
}

// VerifyPurpose verifies a token and additionally checks that its claim
// was issued for the expected purpose.
func (s *Service) VerifyPurpose(tokenStr string, want Purpose) (*Claims, error) {
	claims, err := s.Verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != want {
		return nil, oops.Code("TOKEN_WRONG_PURPOSE").
			With("want", string(want)).
			With("got", string(claims.Purpose)).
			Errorf("claim purpose mismatch")
	}
	return claims, nil
}
