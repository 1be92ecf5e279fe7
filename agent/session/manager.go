package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/agents/coordinator"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	metricsx "github.com/tanpawarit/Chative-Support-Assistant/pkg/metrics"
)

var ErrSessionNotFound = errors.New("session not found")

type Config struct {
	IdleTimeout time.Duration `split_words:"true" default:"30m"`
}

// Factory builds the Coordinator backing a new session.
type Factory func() (*coordinator.Coordinator, error)

type Session struct {
	ID             string    `json:"session_id"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

type entry struct {
	info        Session
	coordinator *coordinator.Coordinator
}

type Option func(*Manager)

func WithMetrics(m *metricsx.Metrics) Option {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(mgr *Manager) {
		if now != nil {
			mgr.now = now
		}
	}
}

// Manager owns one Coordinator per session. Sessions idle for longer than the
// timeout are dropped on the next Create.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	factory     Factory
	idleTimeout time.Duration
	metrics     *metricsx.Metrics
	now         func() time.Time
}

func NewManager(factory Factory, idleTimeout time.Duration, opts ...Option) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	m := &Manager{
		sessions:    make(map[string]*entry),
		factory:     factory,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *Manager) Create() (Session, error) {
	if m.factory == nil {
		return Session{}, errors.New("session factory is required")
	}
	c, err := m.factory()
	if err != nil {
		return Session{}, err
	}

	now := m.now().UTC()
	e := &entry{
		info: Session{
			ID:             uuid.NewString(),
			StartedAt:      now,
			LastActivityAt: now,
		},
		coordinator: c,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(now)
	m.sessions[e.info.ID] = e
	m.metrics.SetActiveSessions(len(m.sessions))
	return e.info, nil
}

func (m *Manager) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return e.info, nil
}

// Ask forwards message to the session's Coordinator. The manager lock is not
// held during the call, so independent sessions run concurrently.
func (m *Manager) Ask(ctx context.Context, id, message string) (contractx.Response, error) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		e.info.LastActivityAt = m.now().UTC()
	}
	m.mu.Unlock()
	if !ok {
		return contractx.Response{}, ErrSessionNotFound
	}

	return e.coordinator.Ask(ctx, message)
}

func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.metrics.SetActiveSessions(len(m.sessions))
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) pruneLocked(now time.Time) {
	for id, e := range m.sessions {
		if now.Sub(e.info.LastActivityAt) < m.idleTimeout {
			continue
		}
		delete(m.sessions, id)
		log.Debug().Str("session_id", id).Msg("idle session expired")
	}
}
