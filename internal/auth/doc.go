// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

// Package auth provides account primitives for Inkwell.
//
// # Domain Types
//
// Domain types (User, Profile, Settings) should be created using their
// respective constructors:
//   - NewUser - creates a User with a hashed password and default role
//   - NewProfile - creates an empty Profile bound to a user
//   - DefaultSettings - creates the default Settings for a user
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - RegisterService - account creation, token issuance, confirmation mail
//   - LoginService - credential verification, identity token issuance
//   - RecoveryService - forgot-password and reset-password flow
//   - ConfirmService - account confirmation from an email claim
//
// Services are created with New*Service constructors that validate
// dependencies.
package auth
