package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/ndrukelly2/state-machine/internal/logging"
	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access per session and orchestrates the
// load → step → save cycle against a SessionStore. It uses reference
// counting to garbage collect unused locks.
type Manager struct {
	engine ports.FlowEngine
	store  ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager bound to an engine and a store.
func NewManager(engine ports.FlowEngine, store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		engine:  engine,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the session's lock.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock, will expire via TTL",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Start creates a fresh session with the given initial context, advances it
// to its first suspend point, and persists it. It fails if the id already
// exists.
func (m *Manager) Start(ctx context.Context, sessionID string, initial map[string]string) (domain.StepResult, error) {
	var result domain.StepResult
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err == nil {
			return fmt.Errorf("session %q already exists", sessionID)
		} else if err != domain.ErrSessionNotFound {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		sess := m.engine.NewSession(initial, "")
		res, err := m.engine.Step(ctx, sess, nil)
		if err != nil {
			return err
		}

		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		result = res
		return nil
	})
	return result, err
}

// Step loads the session, advances it with the supplied event (nil probes
// the current suspend point), and persists the outcome. A fatal flow error
// abandons the session: it is deleted from the store and the error is
// returned to the caller.
func (m *Manager) Step(ctx context.Context, sessionID string, ev *domain.Event) (domain.StepResult, error) {
	var result domain.StepResult
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		res, stepErr := m.engine.Step(ctx, sess, ev)
		if stepErr != nil {
			if delErr := m.store.Delete(ctx, sessionID); delErr != nil {
				m.logger.Warn("failed to delete abandoned session", "session_id", sessionID, "err", delErr)
			}
			return stepErr
		}

		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		result = res
		return nil
	})
	return result, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
