// Package api - Panel session registry
package api

import (
	"context"
	"sync"
	"time"

	"github.com/aethra/equivalencias/internal/backend"
	"github.com/aethra/equivalencias/internal/config"
	"github.com/aethra/equivalencias/internal/logger"
	"github.com/aethra/equivalencias/internal/notify"
	"github.com/aethra/equivalencias/internal/panel"
	"github.com/google/uuid"
)

// Session is everything one browser sees: its controller and its toasts
type Session struct {
	ID         uuid.UUID
	Controller *panel.Controller
	Toasts     *notify.Center

	once     sync.Once
	lastSeen time.Time
}

// Bootstrap runs the first-visit load exactly once per session
func (s *Session) Bootstrap(ctx context.Context) {
	s.once.Do(func() {
		s.Controller.Init(ctx)
	})
}

// SessionFactory builds the per-session state for a new id
type SessionFactory func(id uuid.UUID) (*Session, error)

// NewBackendSessionFactory gives every session its own backend client, and
// with it its own cookie jar
func NewBackendSessionFactory(cfg *config.Config, log *logger.Logger) SessionFactory {
	locale := cfg.LocaleTag()
	return func(id uuid.UUID) (*Session, error) {
		client, err := backend.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
		if err != nil {
			return nil, err
		}
		toasts := notify.NewCenter(notify.WithTTL(cfg.Panel.ToastTTL))
		ctrl := panel.New(client, toasts, locale, log.Named("panel").With("session", id.String()))
		return &Session{ID: id, Controller: ctrl, Toasts: toasts}, nil
	}
}

// SessionRegistry holds live panel sessions and evicts idle ones. At most
// limit sessions are kept; creating one more drops the least recently seen.
type SessionRegistry struct {
	sessions map[uuid.UUID]*Session
	mu       sync.RWMutex
	factory  SessionFactory
	ttl      time.Duration
	limit    int
	now      func() time.Time
	log      *logger.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionRegistry creates an empty registry. A limit of zero or less
// means unbounded.
func NewSessionRegistry(factory SessionFactory, ttl time.Duration, limit int, log *logger.Logger) *SessionRegistry {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*Session),
		factory:  factory,
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Create registers a fresh session under a new id
func (r *SessionRegistry) Create() (*Session, error) {
	id := uuid.New()
	sess, err := r.factory(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if r.limit > 0 && len(r.sessions) >= r.limit {
		r.makeRoomLocked(now)
	}
	sess.lastSeen = now
	r.sessions[id] = sess
	return sess, nil
}

// makeRoomLocked drops expired sessions, then the least recently seen ones,
// until one more fits under the limit
func (r *SessionRegistry) makeRoomLocked(now time.Time) {
	for id, sess := range r.sessions {
		if now.Sub(sess.lastSeen) > r.ttl {
			delete(r.sessions, id)
		}
	}
	for len(r.sessions) >= r.limit {
		var (
			oldestID uuid.UUID
			oldest   time.Time
			found    bool
		)
		for id, sess := range r.sessions {
			if !found || sess.lastSeen.Before(oldest) {
				oldestID, oldest, found = id, sess.lastSeen, true
			}
		}
		delete(r.sessions, oldestID)
		r.log.Debug("session limit reached, dropped least recently seen", "session", oldestID.String())
	}
}

// Get returns a live session and marks it as seen
func (r *SessionRegistry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(sess.lastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Remove forgets a session
func (r *SessionRegistry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictExpired drops sessions idle longer than the ttl
func (r *SessionRegistry) EvictExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, sess := range r.sessions {
		if now.Sub(sess.lastSeen) > r.ttl {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartCleanup evicts idle sessions every interval until Close
func (r *SessionRegistry) StartCleanup(interval time.Duration) {
	go r.cleanup(interval)
}

// Close stops the cleanup goroutine
func (r *SessionRegistry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *SessionRegistry) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := r.EvictExpired(); n > 0 {
				r.log.Info("evicted idle panel sessions", "count", n, "remaining", r.Len())
			}
		case <-r.stop:
			return
		}
	}
}
