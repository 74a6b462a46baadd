// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package validate

import (
	"context"
	"regexp"
)

// Field names used across endpoint chains.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldUsername        = "username"
	FieldFirstName       = "firstname"
	FieldLastName        = "lastname"
	FieldTitle           = "title"
	FieldBody            = "body"
	FieldDescription     = "description"
	FieldCategory        = "category"
)

// Messages surfaced to clients, one per failed rule.
const (
	MsgEmailEmpty              = "Email is required"
	MsgEmailInvalid            = "Please provide a valid email address"
	MsgEmailExists             = "Email already exists"
	MsgEmailNotExists          = "Email does not exist"
	MsgPasswordEmpty           = "Password is required"
	MsgPasswordTooShort        = "Password must be at least 8 characters long"
	MsgPasswordNotAlphanumeric = "Password must contain letters and numbers"
	MsgConfirmPasswordEmpty    = "Confirm password is required"
	MsgPasswordNotMatch        = "Passwords do not match"
	MsgUsernameEmpty           = "Username is required"
	MsgUsernameExists          = "Username already exists"
	MsgFirstNameEmpty          = "Firstname is required"
	MsgLastNameEmpty           = "Lastname is required"
	MsgTitleEmpty              = "Title is required"
	MsgBodyEmpty               = "Body is required"
	MsgDescriptionEmpty        = "Description is required"
	MsgCategoryEmpty           = "Category is required"
)

// MinPasswordLength is the shortest password accepted at registration
// and reset.
const MinPasswordLength = 8

var (
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`\d`)
	// Shape check only; deliverability is the mail dispatcher's problem.
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ExistenceFunc reports whether a value is present in the persistent
// store. The lookup must be case-insensitive and side-effect free. A
// non-nil error is a store failure, never "does not exist".
type ExistenceFunc func(ctx context.Context, value string) (bool, error)

// Required fails on an empty value.
func Required(message string) Rule {
	return Rule{
		Check: func(_ context.Context, _ Input, value string) (bool, error) {
			return value != "", nil
		},
		Message: message,
		Stop:    true,
	}
}

// MinLength fails on values shorter than n bytes.
func MinLength(n int, message string) Rule {
	return Rule{
		Check: func(_ context.Context, _ Input, value string) (bool, error) {
			return len(value) >= n, nil
		},
		Message: message,
		Stop:    true,
	}
}

// Matches fails on values the pattern does not match anywhere.
func Matches(pattern *regexp.Regexp, message string) Rule {
	return Rule{
		Check: func(_ context.Context, _ Input, value string) (bool, error) {
			return pattern.MatchString(value), nil
		},
		Message: message,
	}
}

// EmailShape fails on values that do not look like an email address.
func EmailShape(message string) Rule {
	return Rule{
		Check: func(_ context.Context, _ Input, value string) (bool, error) {
			return emailPattern.MatchString(value), nil
		},
		Message: message,
		Stop:    true,
	}
}

// EqualsField fails unless the value equals another field's raw value
// byte for byte. Case and whitespace differences fail.
func EqualsField(other, message string) Rule {
	return Rule{
		Check: func(_ context.Context, in Input, value string) (bool, error) {
			return value == in[other], nil
		},
		Message: message,
	}
}

// MustNotExist fails when the value is already present in the store.
func MustNotExist(exists ExistenceFunc, message string) Rule {
	return existence(exists, false, message)
}

// MustExist fails when the value is absent from the store.
func MustExist(exists ExistenceFunc, message string) Rule {
	return existence(exists, true, message)
}

// existence is the shared predicate behind both polarities: the same
// lookup, inverted expectation, distinct message.
func existence(exists ExistenceFunc, wantPresent bool, message string) Rule {
	return Rule{
		Check: func(ctx context.Context, _ Input, value string) (bool, error) {
			present, err := exists(ctx, value)
			if err != nil {
				return false, err
			}
			return present == wantPresent, nil
		},
		Message: message,
	}
}
