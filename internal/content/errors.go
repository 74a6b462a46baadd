// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint would be violated.
var ErrConflict = errors.New("already exists")
