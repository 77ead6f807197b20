package local

import (
	"sync"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider"
)

// sessionFeed fans session transitions out to subscribers. Publishing never
// blocks: each subscriber drains its own queue in order, so a slow consumer
// cannot stall Authenticate or SignOut.
type sessionFeed struct {
	mu      sync.Mutex
	seq     uint64
	current *provider.Identity
	subs    map[int]*feedSub
	nextID  int
}

func newSessionFeed() *sessionFeed {
	return &sessionFeed{
		subs: map[int]*feedSub{},
	}
}

// publish records the new current identity and enqueues a notification for
// every subscriber. Identity may be nil (signed out).
func (f *sessionFeed) publish(identity *provider.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	f.current = identity

	n := provider.Notification{Seq: f.seq, Identity: identity}
	for _, sub := range f.subs {
		sub.enqueue(n)
	}
}

// currentIdentity snapshots the identity of the active session, nil when
// signed out.
func (f *sessionFeed) currentIdentity() *provider.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *sessionFeed) subscribe() provider.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	sub := &feedSub{
		id:   f.nextID,
		feed: f,
		out:  make(chan provider.Notification),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	f.subs[sub.id] = sub

	go sub.drain()

	// the subscriber's first notification is the current state; restore
	// listeners rely on this to resolve the initial loading flag
	sub.enqueue(provider.Notification{Seq: f.seq, Identity: f.current})

	return sub
}

func (f *sessionFeed) unsubscribe(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, id)
}

type feedSub struct {
	id   int
	feed *sessionFeed

	qmu   sync.Mutex
	queue []provider.Notification

	out  chan provider.Notification
	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func (s *feedSub) Events() <-chan provider.Notification {
	return s.out
}

func (s *feedSub) Cancel() {
	s.once.Do(func() {
		s.feed.unsubscribe(s.id)
		close(s.done)
	})
}

func (s *feedSub) enqueue(n provider.Notification) {
	s.qmu.Lock()
	s.queue = append(s.queue, n)
	s.qmu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *feedSub) drain() {
	defer close(s.out)

	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			s.qmu.Lock()
			if len(s.queue) == 0 {
				s.qmu.Unlock()
				break
			}
			n := s.queue[0]
			s.queue = s.queue[1:]
			s.qmu.Unlock()

			select {
			case s.out <- n:
			case <-s.done:
				return
			}
		}
	}
}
