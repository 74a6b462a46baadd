// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package validate

// EmailChain validates the shape of the email field.
func EmailChain() Chain {
	return Chain{
		Field: FieldEmail,
		Trim:  true,
		Rules: []Rule{
			Required(MsgEmailEmpty),
			EmailShape(MsgEmailInvalid),
		},
	}
}

// NewEmailChain additionally requires the email to be unused.
func NewEmailChain(emailExists ExistenceFunc) Chain {
	chain := EmailChain()
	chain.Rules = append(chain.Rules, MustNotExist(emailExists, MsgEmailExists))
	return chain
}

// KnownEmailChain additionally requires the email to belong to an
// existing account. Same lookup as NewEmailChain, opposite polarity.
func KnownEmailChain(emailExists ExistenceFunc) Chain {
	chain := EmailChain()
	chain.Rules = append(chain.Rules, MustExist(emailExists, MsgEmailNotExists))
	return chain
}

// PasswordChain enforces the password shape: non-empty, at least eight
// characters, and containing both letters and digits.
func PasswordChain() Chain {
	return Chain{
		Field: FieldPassword,
		Rules: []Rule{
			Required(MsgPasswordEmpty),
			MinLength(MinPasswordLength, MsgPasswordTooShort),
			Matches(letterPattern, MsgPasswordNotAlphanumeric),
			Matches(digitPattern, MsgPasswordNotAlphanumeric),
		},
	}
}

// ConfirmPasswordChain requires confirm_password to equal password
// exactly.
func ConfirmPasswordChain() Chain {
	return Chain{
		Field: FieldConfirmPassword,
		Rules: []Rule{
			Required(MsgConfirmPasswordEmpty),
			EqualsField(FieldPassword, MsgPasswordNotMatch),
		},
	}
}

// UsernameChain requires a non-empty, unused username.
func UsernameChain(usernameExists ExistenceFunc) Chain {
	return Chain{
		Field: FieldUsername,
		Trim:  true,
		Rules: []Rule{
			Required(MsgUsernameEmpty),
			MustNotExist(usernameExists, MsgUsernameExists),
		},
	}
}

// RequiredChain is a single-rule chain for fields that only need to be
// present.
func RequiredChain(field, message string) Chain {
	return Chain{
		Field: field,
		Trim:  true,
		Rules: []Rule{Required(message)},
	}
}

// Registration is the chain set for POST /api/v1/users.
func Registration(emailExists, usernameExists ExistenceFunc) Set {
	return NewSet(
		NewEmailChain(emailExists),
		PasswordChain(),
		UsernameChain(usernameExists),
	)
}

// ForgotPassword is the chain set for POST /api/v1/users/forgot_password.
func ForgotPassword(emailExists ExistenceFunc) Set {
	return NewSet(
		KnownEmailChain(emailExists),
	)
}

// ResetPassword is the chain set for PATCH /api/v1/users/reset_password.
func ResetPassword() Set {
	return NewSet(
		PasswordChain(),
		ConfirmPasswordChain(),
	)
}

// Profile is the chain set for profile creation and updates.
func Profile() Set {
	return NewSet(
		RequiredChain(FieldFirstName, MsgFirstNameEmpty),
		RequiredChain(FieldLastName, MsgLastNameEmpty),
	)
}

// Article is the chain set for article creation.
func Article() Set {
	return NewSet(
		RequiredChain(FieldTitle, MsgTitleEmpty),
		RequiredChain(FieldBody, MsgBodyEmpty),
		RequiredChain(FieldDescription, MsgDescriptionEmpty),
	)
}
