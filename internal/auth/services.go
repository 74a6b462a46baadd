// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// TokenIssuer issues signed, time-limited credentials.
// Implemented by the token service; declared here so account services
// depend only on the capability they use.
type TokenIssuer interface {
	// IssueIdentity issues an identity token for a logged-in user.
	IssueIdentity(userID ulid.ULID, email string) (string, error)

	// IssueConfirm issues a single-purpose account-confirmation claim.
	IssueConfirm(email string) (string, error)

	// IssueReset issues a single-purpose password-reset claim.
	IssueReset(email string) (string, error)
}

// LinkMailer dispatches account lifecycle emails carrying an action link.
type LinkMailer interface {
	// SendConfirmation sends the account confirmation email.
	SendConfirmation(ctx context.Context, email, link string) error

	// SendPasswordReset sends the password reset email.
	SendPasswordReset(ctx context.Context, email, link string) error
}
