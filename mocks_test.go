package admin

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

func setupTestDB(t *testing.T) *bun.DB {
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

	return db
}

func setupCustomers(t *testing.T) *docstore.Collection[Customer] {
	t.Helper()
	return docstore.NewCollection[Customer](setupTestDB(t))
}

// stubProvider is a scriptable provider with a real notification feed: test
// code drives session transitions through emit and inspects the calls the
// credential operations make.
type stubProvider struct {
	mu  sync.Mutex
	seq uint64
	sub *stubSubscription

	identities map[string]*provider.Identity

	authenticateErr   error
	createErr         error
	verificationSent  []string
	resetSent         []string
	signedOut         int
	displayNameErr    error
	verificationErr   error
	lastAuthenticated *provider.Identity
}

func newStubProvider() *stubProvider {
	return &stubProvider{identities: map[string]*provider.Identity{}}
}

type stubSubscription struct {
	ch   chan provider.Notification
	once sync.Once
}

func (s *stubSubscription) Events() <-chan provider.Notification { return s.ch }
func (s *stubSubscription) Cancel()                              { s.once.Do(func() { close(s.ch) }) }

func (p *stubProvider) emit(identity *provider.Identity) uint64 {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	sub := p.sub
	p.mu.Unlock()

	if sub != nil {
		sub.ch <- provider.Notification{Seq: seq, Identity: identity}
	}
	return seq
}

func (p *stubProvider) CreateIdentity(_ context.Context, email, password string) (*provider.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.createErr != nil {
		return nil, p.createErr
	}

	identity := &provider.Identity{UID: "uid-" + email, Email: email}
	p.identities[identity.UID] = identity
	return identity, nil
}

func (p *stubProvider) UpdateDisplayName(_ context.Context, uid, displayName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.displayNameErr != nil {
		return p.displayNameErr
	}
	if identity, ok := p.identities[uid]; ok {
		identity.DisplayName = displayName
	}
	return nil
}

func (p *stubProvider) Authenticate(_ context.Context, email, _ string) (*provider.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.authenticateErr != nil {
		return nil, p.authenticateErr
	}

	identity, ok := p.identities["uid-"+email]
	if !ok {
		return nil, provider.ErrBadCredentials
	}
	p.lastAuthenticated = identity
	return identity, nil
}

func (p *stubProvider) SendVerificationEmail(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.verificationErr != nil {
		return p.verificationErr
	}
	p.verificationSent = append(p.verificationSent, uid)
	return nil
}

func (p *stubProvider) SendPasswordReset(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetSent = append(p.resetSent, email)
	return nil
}

func (p *stubProvider) SignOut(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedOut++
	return nil
}

func (p *stubProvider) SessionChanges() provider.Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sub = &stubSubscription{ch: make(chan provider.Notification, 16)}
	return p.sub
}

func (p *stubProvider) verificationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.verificationSent)
}
