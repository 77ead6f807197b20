package local

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

type capturedMail struct {
	mail []Mail
}

func (c *capturedMail) Send(_ context.Context, m Mail) error {
	c.mail = append(c.mail, m)
	return nil
}

func setupProvider(t *testing.T) (*Provider, *capturedMail) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, EnsureSchema(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	mailer := &capturedMail{}
	tokens := NewTokenService([]byte("test-key"), 1, "kitzcorner-test")

	return New(db, tokens, WithMailer(mailer), WithBaseURL("https://admin.example.com")), mailer
}

func TestCreateIdentity(t *testing.T) {
	p, _ := setupProvider(t)
	ctx := context.Background()

	identity, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)
	require.NotEmpty(t, identity.UID)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.False(t, identity.EmailVerified)

	// same address derives the same uid
	other, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.Error(t, err)
	assert.Nil(t, other)
	assert.ErrorIs(t, err, provider.ErrDuplicateEmail)
}

func TestCreateIdentityRejectsMalformedEmail(t *testing.T) {
	p, _ := setupProvider(t)

	_, err := p.CreateIdentity(context.Background(), "not-an-email", "Abcdef1!")
	assert.ErrorIs(t, err, provider.ErrMalformedEmail)
}

func TestCreateIdentityRejectsWeakPassword(t *testing.T) {
	p, _ := setupProvider(t)

	_, err := p.CreateIdentity(context.Background(), "a@b.com", "short")
	assert.ErrorIs(t, err, provider.ErrWeakPassword)
}

func TestAuthenticate(t *testing.T) {
	p, _ := setupProvider(t)
	ctx := context.Background()

	created, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	identity, err := p.Authenticate(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, created.UID, identity.UID)

	_, err = p.Authenticate(ctx, "a@b.com", "wrong-pass1")
	assert.ErrorIs(t, err, provider.ErrBadCredentials)

	_, err = p.Authenticate(ctx, "nobody@b.com", "Abcdef1!")
	assert.ErrorIs(t, err, provider.ErrBadCredentials)
}

func TestAuthenticatePublishesToFeed(t *testing.T) {
	p, _ := setupProvider(t)
	ctx := context.Background()

	_, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	sub := p.SessionChanges()
	defer sub.Cancel()

	// seed: signed out
	seed := <-sub.Events()
	assert.Nil(t, seed.Identity)

	identity, err := p.Authenticate(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	n := <-sub.Events()
	require.NotNil(t, n.Identity)
	assert.Equal(t, identity.UID, n.Identity.UID)
	assert.Greater(t, n.Seq, seed.Seq)

	require.NoError(t, p.SignOut(ctx))

	n = <-sub.Events()
	assert.Nil(t, n.Identity)
}

func TestUpdateDisplayName(t *testing.T) {
	p, _ := setupProvider(t)
	ctx := context.Background()

	identity, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	require.NoError(t, p.UpdateDisplayName(ctx, identity.UID, "kiran"))

	after, err := p.Authenticate(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, "kiran", after.DisplayName)

	assert.ErrorIs(t, p.UpdateDisplayName(ctx, "not-a-uuid", "x"), provider.ErrIdentityMissing)
}

func TestVerificationEmailFlow(t *testing.T) {
	p, mailer := setupProvider(t)
	ctx := context.Background()

	identity, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	require.NoError(t, p.SendVerificationEmail(ctx, identity.UID))
	require.Len(t, mailer.mail, 1)
	assert.Equal(t, "a@b.com", mailer.mail[0].To)
	assert.Equal(t, PurposeVerifyEmail, mailer.mail[0].Purpose)
	assert.Contains(t, mailer.mail[0].Link, "https://admin.example.com/")

	token := mailer.mail[0].Link[len("https://admin.example.com/"+PurposeVerifyEmail+"/"):]
	require.NoError(t, p.CompleteEmailVerification(ctx, token))

	after, err := p.Authenticate(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)
	assert.True(t, after.EmailVerified)

	// a consumed token cannot be replayed
	assert.Error(t, p.CompleteEmailVerification(ctx, token))
}

func TestPasswordResetFlow(t *testing.T) {
	p, mailer := setupProvider(t)
	ctx := context.Background()

	_, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	require.NoError(t, p.SendPasswordReset(ctx, "a@b.com"))
	require.Len(t, mailer.mail, 1)
	assert.Equal(t, PurposePasswordReset, mailer.mail[0].Purpose)

	token := mailer.mail[0].Link[len("https://admin.example.com/"+PurposePasswordReset+"/"):]
	require.NoError(t, p.CompletePasswordReset(ctx, token, "Newpass99"))

	_, err = p.Authenticate(ctx, "a@b.com", "Abcdef1!")
	assert.ErrorIs(t, err, provider.ErrBadCredentials)

	_, err = p.Authenticate(ctx, "a@b.com", "Newpass99")
	assert.NoError(t, err)
}

func TestPasswordResetDoesNotRevealAccounts(t *testing.T) {
	p, mailer := setupProvider(t)

	require.NoError(t, p.SendPasswordReset(context.Background(), "ghost@b.com"))
	assert.Empty(t, mailer.mail, "unknown addresses are silently accepted")
}

func TestLoginAttemptsThrottle(t *testing.T) {
	p, _ := setupProvider(t)
	ctx := context.Background()

	_, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	for i := 0; i <= MaxLoginAttempts; i++ {
		_, err = p.Authenticate(ctx, "a@b.com", "wrong-pass1")
		assert.ErrorIs(t, err, provider.ErrBadCredentials)
	}

	// the account is now cooling down; even the right password is refused
	_, err = p.Authenticate(ctx, "a@b.com", "Abcdef1!")
	assert.ErrorIs(t, err, provider.ErrTooManyAttempts)
}

func TestIdentityFromToken(t *testing.T) {
	p, _ := setupProvider(t)
	ctx := context.Background()

	created, err := p.CreateIdentity(ctx, "a@b.com", "Abcdef1!")
	require.NoError(t, err)

	token, err := p.MintSessionToken(created)
	require.NoError(t, err)

	identity, err := p.IdentityFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.UID, identity.UID)

	_, err = p.IdentityFromToken(ctx, "garbage")
	require.Error(t, err)
}

func TestThresholdPeriods(t *testing.T) {
	now := time.Now()

	within, err := IsWithinThresholdPeriod(now.Add(-time.Minute), "1h")
	require.NoError(t, err)
	assert.True(t, within)

	within, err = IsWithinThresholdPeriod(now.Add(-2*time.Hour), "1h")
	require.NoError(t, err)
	assert.False(t, within)

	outside, err := IsOutsideThresholdPeriod(now.Add(-2*time.Hour), "1h")
	require.NoError(t, err)
	assert.True(t, outside)

	_, err = IsWithinThresholdPeriod(now, "not-a-duration")
	require.Error(t, err)
}
