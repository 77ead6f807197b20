package admin

import (
	"sync"
)

// SessionStore holds the process-wide session state. It starts with
// loading=true and a nil user; the restore listener resolves it after the
// first session-change notification, and from then on every transition is
// atomic from a consumer's point of view.
//
// Writers are restricted by convention to the RestoreListener (Apply) and
// the login fast-path (SetUser). Everything else reads snapshots or
// subscribes.
type SessionStore struct {
	mu      sync.RWMutex
	state   SessionState
	lastSeq uint64

	subs   map[int]chan SessionState
	nextID int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		state: SessionState{Loading: true},
		subs:  map[int]chan SessionState{},
	}
}

// Current returns an atomic snapshot of the session.
func (s *SessionStore) Current() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a consumer. The channel always carries the latest
// state: if the consumer lags, intermediate snapshots are coalesced rather
// than queued. The cancel func must be called when the consumer goes away.
func (s *SessionStore) Subscribe() (<-chan SessionState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	ch := make(chan SessionState, 1)
	s.subs[id] = ch

	// seed with the current snapshot so new consumers render immediately
	ch <- s.state

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
	}

	return ch, cancel
}

// Apply installs the outcome of a restore cycle. It returns false when seq
// belongs to a superseded notification, in which case the state is left
// untouched; this is the guard that keeps a slow document fetch from
// clobbering a newer sign-out.
func (s *SessionStore) Apply(seq uint64, user *MergedUser) bool {
	s.mu.Lock()

	if seq < s.lastSeq {
		s.mu.Unlock()
		return false
	}

	s.lastSeq = seq
	s.state = SessionState{User: user, Loading: false, Seq: seq}
	s.broadcast()
	s.mu.Unlock()
	return true
}

// SetUser overlays the user without consuming a sequence number. Reserved
// for the login path, which reconciles the account document synchronously
// and must expose the merged result before the login call returns.
func (s *SessionStore) SetUser(user *MergedUser) {
	s.mu.Lock()
	s.state = SessionState{User: user, Loading: false, Seq: s.lastSeq}
	s.broadcast()
	s.mu.Unlock()
}

// broadcast delivers the current state to every subscriber. Callers hold mu;
// sends never block because each channel keeps only the latest snapshot.
func (s *SessionStore) broadcast() {
	for _, ch := range s.subs {
		// coalesce: drop the stale pending snapshot, then deliver the new one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}
