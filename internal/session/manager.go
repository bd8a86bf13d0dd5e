// Package session owns the per-shopper state (cart, overlays, checkout) and serializes access to it.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/overlay"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultTTL = 24 * time.Hour

// State is everything one shopper mutates. It is only touched inside Session.Do.
type State struct {
	Cart     *cart.Store
	UI       *overlay.Coordinator
	Checkout *checkout.Machine
}

// Builder creates the checkout machine bound to a new session's cart.
// schedule re-enters the session, so delayed resets run under the session lock.
type Builder func(c *cart.Store, schedule checkout.Scheduler) *checkout.Machine

type Session struct {
	ID       string
	mu       sync.Mutex
	state    *State
	lastSeen atomic.Int64
	now      func() time.Time
}

// Do runs fn with exclusive access to the session state.
func (s *Session) Do(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen.Store(s.now().UnixNano())
	fn(s.state)
}

func (s *Session) schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		s.Do(func(*State) { fn() })
	})
}

type Config struct {
	TTL time.Duration
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	build    Builder
	now      func() time.Time
	logger   logger.ZapLogger
}

func NewManager(cfg Config, build Builder, log logger.ZapLogger) *Manager {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		build:    build,
		now:      time.Now,
		logger:   log,
	}
}

// Get returns the live session for id. Any other id, including one that has been
// evicted, yields a new session under a server-minted id; created reports that case.
func (m *Manager) Get(id string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s, false
	}

	id = uuid.New().String()
	s = m.newSession(id)
	m.sessions[id] = s
	return s, true
}

func (m *Manager) newSession(id string) *Session {
	s := &Session{ID: id, now: m.now}
	s.lastSeen.Store(m.now().UnixNano())

	store := cart.NewStore()
	s.state = &State{
		Cart: store,
		UI:   overlay.NewCoordinator(),
	}
	if m.build != nil {
		s.state.Checkout = m.build(store, s.schedule)
	} else {
		s.state.Checkout = checkout.NewMachine(checkout.Options{Cart: store, Schedule: s.schedule})
	}
	return s
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict drops sessions idle for longer than the TTL and returns how many were removed.
func (m *Manager) Evict() int {
	cutoff := m.now().Add(-m.ttl).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.lastSeen.Load() < cutoff {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run evicts idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Evict(); n > 0 {
				m.logger.Debug("evicted idle sessions", zap.Int("count", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}
