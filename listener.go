package admin

import (
	"context"
	"sync"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

// RestoreListener owns the provider's session-change feed for the lifetime
// of the process. It is the steady-state writer of the SessionStore: every
// notification is resolved against the customers collection and applied with
// the notification's sequence number, so a fetch that finishes after a newer
// notification has landed is discarded instead of applied.
type RestoreListener struct {
	store     *SessionStore
	provider  provider.Provider
	customers *docstore.Collection[Customer]
	sync      *ProfileSync
	logger    Logger

	mu  sync.Mutex
	sub provider.Subscription
	wg  sync.WaitGroup
}

func NewRestoreListener(store *SessionStore, p provider.Provider, customers *docstore.Collection[Customer], profiles *ProfileSync) *RestoreListener {
	return &RestoreListener{
		store:     store,
		provider:  p,
		customers: customers,
		sync:      profiles,
		logger:    defLogger{},
	}
}

func (l *RestoreListener) WithLogger(logger Logger) *RestoreListener {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Start subscribes to the session feed and dispatches notifications until
// ctx is cancelled or Stop is called. Subscribing twice is an error in the
// caller; the listener does not guard against it.
func (l *RestoreListener) Start(ctx context.Context) {
	sub := l.provider.SessionChanges()

	l.mu.Lock()
	l.sub = sub
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Cancel()
	}()

	go func() {
		for n := range sub.Events() {
			l.dispatch(ctx, n)
		}
	}()
}

// Stop cancels the subscription and waits for in-flight restore cycles.
func (l *RestoreListener) Stop() {
	l.mu.Lock()
	sub := l.sub
	l.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
	l.wg.Wait()
}

// dispatch handles one notification. Signed-out transitions resolve
// immediately; signed-in transitions fetch the account document in their own
// goroutine so a slow fetch never delays later notifications. Correctness
// under that concurrency rests on SessionStore.Apply's sequence check.
func (l *RestoreListener) dispatch(ctx context.Context, n provider.Notification) {
	if n.Identity == nil {
		l.store.Apply(n.Seq, nil)
		return
	}

	identity := n.Identity
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.restore(ctx, n.Seq, identity)
	}()
}

func (l *RestoreListener) restore(ctx context.Context, seq uint64, identity *provider.Identity) {
	doc, err := l.customers.Read(ctx, identity.UID)
	switch {
	case err == nil:
		synced, syncErr := l.sync.Reconcile(ctx, identity, doc)
		if syncErr != nil {
			// reconciliation is fire-and-forget: log, keep the session
			l.logger.Error("restore: email verification sync failed: %v", syncErr)
		}
		doc = synced

	case docstore.IsNotFound(err):
		// a provider-level account with no business record: expose the
		// identity alone
		doc = nil

	default:
		// transient document fetch failure: the user stays signed in with a
		// profile-less session rather than being logged out or shown a stale
		// cached profile
		l.logger.Error("restore: account document fetch failed for %s: %v", identity.UID, err)
		doc = nil
	}

	if !l.store.Apply(seq, Merge(identity, doc)) {
		l.logger.Debug("restore: discarding superseded cycle seq=%d uid=%s", seq, identity.UID)
	}
}
