// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package httpapi

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Identity is the caller resolved from a verified token. Email-claim
// tokens (confirmation, password reset) carry no user ID.
type Identity struct {
	UserID ulid.ULID
	Email  string
}

type contextKey struct{}

// withIdentity attaches the caller identity to the request context.
func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom returns the identity attached by the auth gate, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
