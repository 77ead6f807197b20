package admin

import (
	"github.com/goliatone/go-errors"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

// Operation-boundary errors. Every provider or store failure is converted
// into one of these before it reaches a caller; the Message is the short
// user-facing text shown next to the form that triggered the failure.

// ErrBadCredentials covers unknown accounts and password mismatches alike.
var ErrBadCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode("BAD_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrRateLimited is surfaced when the provider throttles sign-in attempts.
var ErrRateLimited = errors.New("too many attempts, try again later", errors.CategoryAuth).
	WithTextCode("RATE_LIMITED")

// ErrEmailUnverified gates navigation after an otherwise successful login.
var ErrEmailUnverified = errors.New("please verify your email", errors.CategoryAuth).
	WithTextCode("EMAIL_UNVERIFIED").
	WithCode(errors.CodeForbidden)

// ErrRegistrationRejected wraps provider-side registration failures
// (duplicate email, malformed email, weak password).
var ErrRegistrationRejected = errors.New("registration failed", errors.CategoryValidation).
	WithTextCode("REGISTRATION_REJECTED")

// ErrOrphanedIdentity reports the accepted partial failure where the
// provider identity exists but the account document write failed. No
// compensating rollback is attempted.
var ErrOrphanedIdentity = errors.New("registration incomplete, contact support", errors.CategoryInternal).
	WithTextCode("ORPHANED_IDENTITY")

// ErrResetRejected wraps provider-side password reset dispatch failures. It
// never indicates whether the email has an account.
var ErrResetRejected = errors.New("could not send reset email", errors.CategoryValidation).
	WithTextCode("RESET_REJECTED")

// AuthenticationError converts a provider authenticate failure into the
// boundary taxonomy.
func AuthenticationError(err error) error {
	switch {
	case err == nil:
		return nil
	case provider.IsBadCredentials(err):
		return ErrBadCredentials
	case provider.IsRateLimited(err):
		return ErrRateLimited
	default:
		return errors.Wrap(err, errors.CategoryAuth, "sign-in failed").
			WithTextCode("AUTH_FAILED")
	}
}

// RegistrationError converts a provider identity-creation failure into the
// boundary taxonomy, preserving the provider's reason text code.
func RegistrationError(err error) error {
	if err == nil {
		return nil
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return errors.Wrap(richErr, ErrRegistrationRejected.Category, richErr.Message).
			WithTextCode(richErr.TextCode)
	}

	return errors.Wrap(err, ErrRegistrationRejected.Category, ErrRegistrationRejected.Message).
		WithTextCode(ErrRegistrationRejected.TextCode)
}

// IsUnverified reports whether err is the caller-side verification gate.
func IsUnverified(err error) bool {
	if err == nil {
		return false
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == ErrEmailUnverified.TextCode
	}
	return false
}
