package session

import (
	"fmt"
	"sync"

	"github.com/sciencehub/shx/internal/models"
)

// Store holds the current session and notifies subscribers on every change.
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	current   models.Session
	epoch     uint64
	persister Persister
	subs      map[int]func(models.Session)
	nextSub   int
}

// NewStore creates a Store rehydrated from the persister. An absent or
// corrupt persisted session yields the logged-out state, never an error.
func NewStore(p Persister) *Store {
	if p == nil {
		p = NullPersister{}
	}

	s := &Store{
		persister: p,
		subs:      make(map[int]func(models.Session)),
	}

	// Rehydration failures are silent: a session we cannot restore is
	// indistinguishable from being logged out.
	if sess, err := p.Load(); err == nil && sess.Validate() == nil {
		s.current = sess
	}

	return s
}

// Current returns a snapshot of the session.
func (s *Store) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Epoch returns a counter that increments on every session change. Callers
// issuing requests capture it and compare on completion to detect staleness.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// SetAuth replaces the session with the given identity and credential,
// persists it, and notifies subscribers. Both fields are replaced together;
// observers never see a partial update.
func (s *Store) SetAuth(user models.User, token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}

	sess := models.Session{User: &user, Token: token}
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.epoch++
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, sess)

	if err := s.persister.Save(sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Logout clears the session, persists the cleared state, and notifies
// subscribers. Calling it while logged out is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	if !s.current.Authenticated() {
		s.mu.Unlock()
		return nil
	}
	s.current = models.Session{}
	s.epoch++
	subs := s.snapshotSubs()
	s.mu.Unlock()

	notify(subs, models.Session{})

	if err := s.persister.Save(models.Session{}); err != nil {
		return fmt.Errorf("failed to persist logout: %w", err)
	}
	return nil
}

// Subscribe registers fn to be called with the new session after every
// change. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(models.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// snapshotSubs copies the subscriber list; callers must hold s.mu.
func (s *Store) snapshotSubs() []func(models.Session) {
	subs := make([]func(models.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

// notify runs outside the store lock so subscribers may read the store.
func notify(subs []func(models.Session), sess models.Session) {
	for _, fn := range subs {
		fn(sess)
	}
}
