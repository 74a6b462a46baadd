// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package content holds the publishing domain: articles, categories,
// ratings, likes, and reports, plus the read-time estimate and the
// pagination descriptor used by list endpoints.
//
// Repository interfaces are declared here next to the types they store;
// PostgreSQL implementations live in content/postgres.
package content
