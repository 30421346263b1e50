package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/quizday/internal/logger"
	"github.com/vytor/quizday/internal/models"
)

// Registry keeps live sessions in memory between requests. Nothing here is
// persisted; sessions idle longer than the TTL are dropped on the next access.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry
	log     *logger.Logger
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
		log:     logger.Default().WithPrefix("sessions"),
	}
}

// SetClock replaces the time source. Used by tests.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// Create starts a new session for quiz and returns its id.
func (r *Registry) Create(quiz models.Quiz) (string, *Session, error) {
	s := New(quiz)
	if err := s.Start(); err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.entries[id] = &entry{session: s, lastSeen: r.now()}
	r.log.Debug("session created: id=%s quiz=%s live=%d", id, quiz.ID, len(r.entries))
	return id, s, nil
}

// Do runs fn against the session with the given id while holding the
// registry lock. The boolean is false if the session does not exist or has
// expired.
func (r *Registry) Do(id string, fn func(*Session) error) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return false, nil
	}
	if r.expiredLocked(e) {
		delete(r.entries, id)
		r.log.Debug("session expired: id=%s", id)
		return false, nil
	}
	e.lastSeen = r.now()
	return true, fn(e.session)
}

// Remove discards a session. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Len returns the number of live sessions, after dropping expired ones.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.entries)
}

// Sweep drops every expired session and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.entries)
	r.sweepLocked()
	return before - len(r.entries)
}

// RunJanitor sweeps expired sessions every interval until ctx is cancelled,
// so sessions nobody comes back to do not pile up. It blocks; run it in its
// own goroutine.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	r.log.Debug("janitor started: interval=%s ttl=%s", interval, r.ttl)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("janitor stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("expired %d idle sessions", n)
			}
		}
	}
}

func (r *Registry) expiredLocked(e *entry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}

func (r *Registry) sweepLocked() {
	for id, e := range r.entries {
		if r.expiredLocked(e) {
			delete(r.entries, id)
		}
	}
}
