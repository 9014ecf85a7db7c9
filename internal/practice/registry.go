package practice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegistryConfig struct {
	QuestionSeconds int
	TickInterval    time.Duration
	IdleTTL         time.Duration
}

// Registry holds the live sessions of this process. Sessions are never
// persisted; closing or sweeping a session stops its countdown.
type Registry struct {
	bank     QuestionBank
	cfg      RegistryConfig
	observer Observer
	logger   *zap.Logger

	// newTimer is swapped in tests.
	newTimer func() Scheduler

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(bank QuestionBank, cfg RegistryConfig, observer Observer, logger *zap.Logger) *Registry {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		bank:     bank,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
	r.newTimer = func() Scheduler { return NewTimer(r.cfg.TickInterval) }
	return r
}

func (r *Registry) Bank() QuestionBank { return r.bank }

// Create opens a session on category.
func (r *Registry) Create(category string) (*Session, error) {
	id := uuid.NewString()
	s, err := NewSession(id, r.bank, category, SessionOptions{
		QuestionSeconds: r.cfg.QuestionSeconds,
		Timer:           r.newTimer(),
		Observer:        r.observer,
		Logger:          r.logger,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.observer.SessionsActive(n)
	r.logger.Info("[practice] session started", zap.String("session_id", id), zap.String("category", category))
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete closes and forgets the session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	r.observer.SessionsActive(n)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle since before now minus the idle TTL and returns how many it removed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.IdleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		r.observer.SessionsActive(n)
		r.logger.Info("[practice] swept idle sessions", zap.Int("removed", len(stale)), zap.Int("remaining", n))
	}
	return len(stale)
}

// Run sweeps idle sessions every interval until ctx is done, then closes
// every remaining session.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// CloseAll tears down every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	r.observer.SessionsActive(0)
}
