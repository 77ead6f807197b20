package admin

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-errors"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

// RegisterInput carries the sign-up form fields. Phone may be a bare
// national number; it is normalized to E.164 before the record is stored.
type RegisterInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Phone, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 0)),
	)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l LoginInput) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Email, validation.Required, is.EmailFormat),
		validation.Field(&l.Password, validation.Required),
	)
}

// Credentials implements register, login, logout, and password reset on top
// of the provider and the customers collection. It writes the session store
// only on the login fast path; every other transition reaches the store
// through the restore listener.
type Credentials struct {
	provider  provider.Provider
	customers *docstore.Collection[Customer]
	store     *SessionStore
	sync      *ProfileSync
	activity  ActivitySink
	logger    Logger
}

type CredentialsOption func(*Credentials)

func WithCredentialsLogger(l Logger) CredentialsOption {
	return func(c *Credentials) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithActivitySink(sink ActivitySink) CredentialsOption {
	return func(c *Credentials) {
		if sink != nil {
			c.activity = sink
		}
	}
}

func NewCredentials(p provider.Provider, customers *docstore.Collection[Customer], store *SessionStore, sync *ProfileSync, opts ...CredentialsOption) *Credentials {
	c := &Credentials{
		provider:  p,
		customers: customers,
		store:     store,
		sync:      sync,
		activity:  noopActivity{},
		logger:    defLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates the provider identity, sets the display name, dispatches
// the verification email, and writes the customer record keyed by the
// identity UID. There is no rollback: if the customer write fails after the
// identity exists, the caller gets ErrOrphanedIdentity and the partial state
// stands until support resolves it.
func (c *Credentials) Register(ctx context.Context, in RegisterInput) (*Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload").
			WithTextCode("INVALID_PAYLOAD")
	}

	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	identity, err := c.provider.CreateIdentity(ctx, email, in.Password)
	if err != nil {
		return nil, RegistrationError(err)
	}

	if err := c.provider.UpdateDisplayName(ctx, identity.UID, in.Username); err != nil {
		c.logger.Error("register: display name update failed for %s: %v", identity.UID, err)
		return nil, errors.Wrap(err, ErrOrphanedIdentity.Category, ErrOrphanedIdentity.Message).
			WithTextCode(ErrOrphanedIdentity.TextCode)
	}

	if err := c.provider.SendVerificationEmail(ctx, identity.UID); err != nil {
		// non-fatal: the account exists, the user can request another mail
		c.logger.Error("register: verification email dispatch failed for %s: %v", identity.UID, err)
	}

	now := time.Now()
	doc := &Customer{
		ID:            identity.UID,
		Username:      in.Username,
		Name:          in.Name,
		Email:         email,
		Phone:         phone,
		EmailVerified: false,
		Status:        CustomerActive,
		JoinedAt:      &now,
	}

	if err := c.customers.Create(ctx, doc); err != nil {
		c.logger.Error("register: customer record write failed for %s: %v", identity.UID, err)
		return nil, errors.Wrap(err, ErrOrphanedIdentity.Category, ErrOrphanedIdentity.Message).
			WithTextCode(ErrOrphanedIdentity.TextCode)
	}

	c.activity.Record(ctx, ActivityEvent{
		Action:  "account.register",
		Subject: identity.UID,
		Detail:  email,
	})

	return doc, nil
}

// Login authenticates and resolves the merged user synchronously, so the
// caller can inspect verification state before navigating. When the identity
// reports a verified email and the stored record still says otherwise, the
// record is updated before Login returns.
//
// An unverified login still succeeds at the provider level; Login resolves
// the session, re-sends the verification email, and returns the merged user
// together with ErrEmailUnverified so the surface can block navigation.
func (c *Credentials) Login(ctx context.Context, in LoginInput) (*MergedUser, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid login payload").
			WithTextCode("INVALID_PAYLOAD")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	identity, err := c.provider.Authenticate(ctx, email, in.Password)
	if err != nil {
		return nil, AuthenticationError(err)
	}

	doc, err := c.customers.Read(ctx, identity.UID)
	switch {
	case err == nil:
		synced, syncErr := c.sync.Reconcile(ctx, identity, doc)
		if syncErr != nil {
			c.logger.Error("login: email verification sync failed for %s: %v", identity.UID, syncErr)
		} else {
			doc = synced
		}
	case docstore.IsNotFound(err):
		doc = nil
	default:
		c.logger.Error("login: account document fetch failed for %s: %v", identity.UID, err)
		doc = nil
	}

	user := Merge(identity, doc)
	c.store.SetUser(user)

	c.activity.Record(ctx, ActivityEvent{
		Action:  "account.login",
		Subject: identity.UID,
		Detail:  email,
	})

	if !identity.EmailVerified {
		if err := c.provider.SendVerificationEmail(ctx, identity.UID); err != nil {
			c.logger.Error("login: verification email re-send failed for %s: %v", identity.UID, err)
		}
		return user, ErrEmailUnverified
	}

	return user, nil
}

// Logout ends the provider session. The restore listener observes the
// transition and clears the store; nothing here touches it directly.
func (c *Credentials) Logout(ctx context.Context) error {
	state := c.store.Current()

	if err := c.provider.SignOut(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "sign out failed")
	}

	if state.User != nil {
		c.activity.Record(ctx, ActivityEvent{
			Action:  "account.logout",
			Subject: state.User.ID,
		})
	}
	return nil
}

// ResetPassword dispatches a reset email. The provider keeps the
// does-this-account-exist answer to itself, so a nil return here does not
// confirm the address.
func (c *Credentials) ResetPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid email address").
			WithTextCode("INVALID_PAYLOAD")
	}

	if err := c.provider.SendPasswordReset(ctx, email); err != nil {
		c.logger.Error("reset: dispatch failed: %v", err)
		return errors.Wrap(err, ErrResetRejected.Category, ErrResetRejected.Message).
			WithTextCode(ErrResetRejected.TextCode)
	}

	c.activity.Record(ctx, ActivityEvent{
		Action: "account.password-reset",
		Detail: email,
	})
	return nil
}
