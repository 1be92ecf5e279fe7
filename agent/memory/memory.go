package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

const (
	DefaultMaxHistory    = 20
	DefaultContextWindow = 5
)

type Config struct {
	MaxHistory    int `split_words:"true" default:"20"`
	ContextWindow int `split_words:"true" default:"5"`
}

// Turn is one immutable conversation entry.
type Turn struct {
	ID        string         `json:"id"`
	Role      contractx.Role `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
}

// Option customizes Memory.
type Option func(*Memory)

func WithMaxHistory(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxHistory = n
		}
	}
}

func WithContextWindow(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.contextWindow = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// Memory is a bounded, insertion-ordered turn log. Once the log exceeds
// maxHistory the oldest turns are dropped.
type Memory struct {
	mu            sync.RWMutex
	turns         []Turn
	maxHistory    int
	contextWindow int
	now           func() time.Time
}

var _ contractx.ConversationMemory = (*Memory)(nil)

func New(opts ...Option) *Memory {
	m := &Memory{
		maxHistory:    DefaultMaxHistory,
		contextWindow: DefaultContextWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.turns = make([]Turn, 0, m.maxHistory)
	return m
}

func NewFromConfig(cfg Config, opts ...Option) *Memory {
	base := []Option{
		WithMaxHistory(cfg.MaxHistory),
		WithContextWindow(cfg.ContextWindow),
	}
	return New(append(base, opts...)...)
}

func (m *Memory) Add(role contractx.Role, content string) {
	turn := Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: m.now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns, turn)
	if overflow := len(m.turns) - m.maxHistory; overflow > 0 {
		kept := make([]Turn, m.maxHistory)
		copy(kept, m.turns[overflow:])
		m.turns = kept
	}
}

// Context renders the most recent contextWindow turns, oldest first, one
// "role: content" line per turn.
func (m *Memory) Context() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := len(m.turns) - m.contextWindow
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(m.turns)-start)
	for _, t := range m.turns[start:] {
		lines = append(lines, string(t.Role)+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

func (m *Memory) Turns() []Turn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Turn(nil), m.turns...)
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.turns)
}

func (m *Memory) MaxHistory() int {
	return m.maxHistory
}
