package cart

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is a till's open cart. Every access to the cart goes through Do,
// so a session behaves as a single logical actor even when requests overlap.
type Session struct {
	ID        uuid.UUID
	CashierID string
	OpenedAt  time.Time

	mu       sync.Mutex
	cart     *Cart
	now      func() time.Time
	lastUsed atomic.Int64 // unix nanoseconds
}

// Do runs fn with exclusive access to the session's cart.
func (s *Session) Do(fn func(c *Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.touch()
	s.touch()
	return fn(s.cart)
}

// LastUsed returns when the session was last opened or worked on.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch() {
	s.lastUsed.Store(s.now().UnixNano())
}

// Registry tracks the open sessions of this process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		now:      time.Now,
	}
}

// Open starts a new session with an empty cart.
func (r *Registry) Open(cashierID string) *Session {
	s := &Session{
		ID:        uuid.New(),
		CashierID: cashierID,
		OpenedAt:  r.now(),
		cart:      New(),
		now:       r.now,
	}
	s.touch()

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

// Get returns the session with the given id.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close discards the session and reports whether it existed.
func (r *Registry) Close(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes every session idle for at least idle and returns how many went.
// A session busy inside Do is never swept.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.lastUsed.Load() <= cutoff {
			delete(r.sessions, id)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, idle, interval time.Duration, logger zerolog.Logger) {
	logger = logger.With().Str("component", "cart_reaper").Logger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("cart reaper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				logger.Info().
					Int("expired", n).
					Int("open_carts", r.Len()).
					Dur("idle_ttl", idle).
					Msg("expired idle carts")
			}
		}
	}
}
