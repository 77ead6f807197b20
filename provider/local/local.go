// Package local is a self-hosted implementation of the provider contract:
// bcrypt credentials and mail tokens in Bun-managed tables, JWT session
// tokens, and an in-process session-change feed.
package local

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

// MaxLoginAttempts is the maximun number of attempts an account gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// MailTokenTTL is how long verification and reset links stay valid.
var MailTokenTTL = "24h"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

type defLogger struct{}

func (defLogger) Debug(format string, args ...any) { fmt.Printf("[DBG] PROVIDER "+format+"\n", args...) }
func (defLogger) Info(format string, args ...any)  { fmt.Printf("[INF] PROVIDER "+format+"\n", args...) }
func (defLogger) Error(format string, args ...any) { fmt.Printf("[ERR] PROVIDER "+format+"\n", args...) }

// Provider implements provider.Provider on local storage.
type Provider struct {
	accounts   Accounts
	mailTokens repository.Repository[*MailToken]
	tokens     *TokenService
	mailer     Mailer
	feed       *sessionFeed
	logger     Logger

	// baseURL prefixes the links embedded in outbound mail.
	baseURL string
}

var _ provider.Provider = (*Provider)(nil)

type Option func(*Provider)

func WithMailer(m Mailer) Option {
	return func(p *Provider) {
		p.mailer = normalizeMailer(m)
	}
}

func WithLogger(l Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithBaseURL(url string) Option {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(url, "/")
	}
}

// New creates a local provider on the given database. The token service
// signs the session tokens handed out by Authenticate.
func New(db *bun.DB, tokens *TokenService, opts ...Option) *Provider {
	p := &Provider{
		accounts:   NewAccountsRepository(db),
		mailTokens: NewMailTokensRepository(db),
		tokens:     tokens,
		mailer:     logMailer{},
		feed:       newSessionFeed(),
		logger:     defLogger{},
		baseURL:    "http://localhost:8572",
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// Tokens exposes the session token service for the HTTP layer.
func (p *Provider) Tokens() *TokenService {
	return p.tokens
}

func (p *Provider) CreateIdentity(ctx context.Context, email, password string) (*provider.Identity, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, provider.ErrMalformedEmail
	}

	if !ValidatePasswordStrength(password) {
		return nil, provider.ErrWeakPassword
	}

	if _, err := p.accounts.GetByIdentifier(ctx, email); err == nil {
		return nil, provider.ErrDuplicateEmail
	} else if !repository.IsRecordNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check for existing account")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	account := &Account{
		Email:        email,
		PasswordHash: hash,
	}

	// derive the uid from the email so re-registrations of the same address
	// would collide instead of minting a second identity
	if id, err := hashid.NewUUID(email); err == nil {
		account.ID = id
	}

	if account, err = p.accounts.Create(ctx, account); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create account")
	}

	return identityFromAccount(account), nil
}

func (p *Provider) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	id, err := uuid.Parse(uid)
	if err != nil {
		return provider.ErrIdentityMissing
	}

	record := &Account{ID: id, DisplayName: displayName}
	if _, err := p.accounts.Update(ctx, record, repository.UpdateByID(id.String()), repository.UpdateSkipZeroValues()); err != nil {
		if repository.IsRecordNotFound(err) {
			return provider.ErrIdentityMissing
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update display name")
	}

	return nil
}

func (p *Provider) Authenticate(ctx context.Context, email, password string) (*provider.Identity, error) {
	account, err := p.accounts.GetByIdentifier(ctx, strings.TrimSpace(email))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, provider.ErrBadCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during verification")
	}

	if account.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*account.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			account.LoginAttempts = 0
		}
	}

	// too many attempts in the window, cool off
	if account.LoginAttempts > MaxLoginAttempts {
		return nil, provider.ErrTooManyAttempts
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		if err2 := p.accounts.TrackAttemptedLogin(ctx, account); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, provider.ErrBadCredentials
	}

	if err := p.accounts.TrackSucccessfulLogin(ctx, account); err != nil {
		p.logger.Error("failed to track successful login: %v", err)
	}

	identity := identityFromAccount(account)
	p.feed.publish(identity)

	return identity, nil
}

func (p *Provider) SendVerificationEmail(ctx context.Context, uid string) error {
	account, err := p.accounts.GetByIdentifier(ctx, uid)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return provider.ErrIdentityMissing
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account for verification")
	}

	return p.dispatchMailToken(ctx, account, PurposeVerifyEmail)
}

func (p *Provider) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return provider.ErrMalformedEmail
	}

	account, err := p.accounts.GetByIdentifier(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// do not reveal whether the address has an account
			return nil
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account for password reset")
	}

	return p.dispatchMailToken(ctx, account, PurposePasswordReset)
}

func (p *Provider) dispatchMailToken(ctx context.Context, account *Account, purpose MailTokenPurpose) error {
	token := &MailToken{
		AccountID: &account.ID,
		Email:     account.Email,
		Purpose:   purpose,
		Status:    TokenPendingStatus,
	}

	token, err := p.mailTokens.Create(ctx, token)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create mail token")
	}

	link := fmt.Sprintf("%s/%s/%s", p.baseURL, purpose, token.ID.String())

	if err := p.mailer.Send(ctx, Mail{To: account.Email, Purpose: purpose, Link: link}); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to dispatch mail")
	}

	return nil
}

// CompleteEmailVerification consumes a verification token and flips the
// account's verified flag. If the verified account is the current session,
// the feed republishes the refreshed identity so listeners reconcile.
func (p *Provider) CompleteEmailVerification(ctx context.Context, token string) error {
	mailToken, err := p.consumeMailToken(ctx, token, PurposeVerifyEmail)
	if err != nil {
		return err
	}

	if err := p.accounts.MarkEmailVerified(ctx, *mailToken.AccountID); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to mark email verified")
	}

	if current := p.feed.currentIdentity(); current != nil && current.UID == mailToken.AccountID.String() {
		refreshed := *current
		refreshed.EmailVerified = true
		p.feed.publish(&refreshed)
	}

	return nil
}

// CompletePasswordReset consumes a reset token and replaces the password.
func (p *Provider) CompletePasswordReset(ctx context.Context, token, password string) error {
	if !ValidatePasswordStrength(password) {
		return provider.ErrWeakPassword
	}

	mailToken, err := p.consumeMailToken(ctx, token, PurposePasswordReset)
	if err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	if err := p.accounts.ResetPassword(ctx, *mailToken.AccountID, hash); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to reset password")
	}

	return nil
}

func (p *Provider) consumeMailToken(ctx context.Context, token string, purpose MailTokenPurpose) (*MailToken, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, errors.New("unknown or invalid token", errors.CategoryBadInput).
			WithTextCode("INVALID_TOKEN")
	}

	record, err := p.mailTokens.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errors.New("unknown or invalid token", errors.CategoryBadInput).
				WithTextCode("INVALID_TOKEN")
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve mail token")
	}

	if record.Purpose != purpose || record.Status != TokenPendingStatus || record.AccountID == nil {
		return nil, errors.New("token already used or invalid", errors.CategoryBadInput).
			WithTextCode("INVALID_TOKEN")
	}

	if record.CreatedAt != nil {
		valid, err := IsWithinThresholdPeriod(*record.CreatedAt, MailTokenTTL)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check token expiry")
		}
		if !valid {
			return nil, errors.New("token expired", errors.CategoryBadInput).
				WithTextCode("TOKEN_EXPIRED")
		}
	}

	record.Status = TokenUsedStatus
	if _, err := p.mailTokens.Update(ctx, record, repository.UpdateByID(record.ID.String())); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to consume mail token")
	}

	return record, nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// idempotent: publishing nil with no active session is harmless
	p.feed.publish(nil)
	return nil
}

func (p *Provider) SessionChanges() provider.Subscription {
	return p.feed.subscribe()
}

// MintSessionToken signs a session token for the identity; the HTTP layer
// stores it in the auth cookie.
func (p *Provider) MintSessionToken(identity *provider.Identity) (string, error) {
	if identity == nil {
		return "", provider.ErrIdentityMissing
	}
	return p.tokens.Mint(identity.UID, identity.Email, identity.EmailVerified)
}

// IdentityFromToken validates a session token and loads its identity.
func (p *Provider) IdentityFromToken(ctx context.Context, token string) (*provider.Identity, error) {
	claims, err := p.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	account, err := p.accounts.GetByIdentifier(ctx, claims.UID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, provider.ErrIdentityMissing
		}
		return nil, err
	}

	return identityFromAccount(account), nil
}

func identityFromAccount(account *Account) *provider.Identity {
	identity := &provider.Identity{
		UID:           account.ID.String(),
		Email:         account.Email,
		DisplayName:   account.DisplayName,
		EmailVerified: account.EmailVerified,
	}
	if account.CreatedAt != nil {
		identity.CreatedAt = *account.CreatedAt
	}
	return identity
}
