// Package provider defines the contract the admin core expects from the
// hosted authentication provider. The core never talks to the provider's
// storage or token machinery directly; it only sees identities and the
// session-change feed.
package provider

import (
	"context"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Identity is the opaque handle the provider returns for an authenticated
// account. UID is stable and unique for the lifetime of the account.
type Identity struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
	CreatedAt     time.Time
}

// Notification is one session transition. Identity is nil when the session
// ended (sign-out, token revocation). Seq is monotonically increasing per
// feed so consumers can discard results of superseded async work.
type Notification struct {
	Seq      uint64
	Identity *Identity
}

// Subscription is a cancellable handle on the session-change feed.
type Subscription interface {
	// Events yields notifications in arrival order. The channel closes when
	// the subscription is cancelled or the provider shuts down.
	Events() <-chan Notification
	Cancel()
}

// Provider is the authentication provider surface used by the admin core.
type Provider interface {
	// CreateIdentity registers email/password credentials and returns the new
	// identity. Fails with ErrDuplicateEmail, ErrMalformedEmail, or
	// ErrWeakPassword.
	CreateIdentity(ctx context.Context, email, password string) (*Identity, error)

	// UpdateDisplayName sets the identity's display name.
	UpdateDisplayName(ctx context.Context, uid, displayName string) error

	// Authenticate verifies credentials and starts a session. The session
	// feed observes the sign-in. Fails with ErrBadCredentials or
	// ErrTooManyAttempts.
	Authenticate(ctx context.Context, email, password string) (*Identity, error)

	// SendVerificationEmail requests the provider dispatch a verification
	// message for the identity.
	SendVerificationEmail(ctx context.Context, uid string) error

	// SendPasswordReset requests a password-reset message. It must not reveal
	// whether the email corresponds to a real account.
	SendPasswordReset(ctx context.Context, email string) error

	// SignOut ends the current session. Calling it with no active session is
	// a no-op.
	SignOut(ctx context.Context) error

	// SessionChanges subscribes to session transitions. A new subscriber
	// immediately receives the current state (identity or nil) as its first
	// notification.
	SessionChanges() Subscription
}

// Sentinel credential failures. The admin core maps these onto user-facing
// messages; nothing below this package should inspect provider internals.
var (
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrTooManyAttempts = errors.New("too many sign-in attempts")
	ErrIdentityMissing = errors.New("identity not found")
)

var ErrDuplicateEmail = goerrors.New("email already in use", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_EMAIL")

var ErrMalformedEmail = goerrors.New("malformed email address", goerrors.CategoryBadInput).
	WithTextCode("MALFORMED_EMAIL")

var ErrWeakPassword = goerrors.New("password does not meet requirements", goerrors.CategoryValidation).
	WithTextCode("WEAK_PASSWORD")

// IsRateLimited reports whether err came from the provider's sign-in
// throttling rather than a credential mismatch.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrTooManyAttempts)
}

// IsBadCredentials covers both unknown accounts and password mismatches; the
// provider deliberately does not distinguish the two.
func IsBadCredentials(err error) bool {
	return errors.Is(err, ErrBadCredentials)
}
