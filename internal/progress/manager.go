package progress

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/metrics"
	"github.com/abhisek/learnquest/internal/store"
)

// DefaultCacheSize bounds the number of live engines held by a Manager.
const DefaultCacheSize = 1024

// Manager keeps one hydrated Engine per identity. Engines evicted from the
// cache are closed, flushing their pending writes. An identity whose engine
// is still closing cannot be opened again until the close has finished, so
// the new engine always reads the final flushed document.
type Manager struct {
	repo     store.GameStateRepo
	catalog  interests.Catalog
	opts     []Option
	logger   *zap.Logger
	observer metrics.Observer

	group   singleflight.Group
	engines *lru.Cache[string, *Engine]

	// mu guards every cache mutation together with closing and evicted, so
	// an engine is never out of the cache without its close being recorded.
	mu      sync.Mutex
	closing map[string]chan struct{}
	evicted []*Engine
}

// NewManager creates a manager holding at most size engines. opts are
// applied to every engine it creates.
func NewManager(repo store.GameStateRepo, catalog interests.Catalog, size int, logger *zap.Logger, observer metrics.Observer, opts ...Option) (*Manager, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = metrics.Nop{}
	}

	m := &Manager{
		repo:     repo,
		catalog:  catalog,
		logger:   logger,
		observer: observer,
		closing:  make(map[string]chan struct{}),
	}
	m.opts = append([]Option{WithLogger(logger), WithObserver(observer)}, opts...)

	cache, err := lru.NewWithEvict[string, *Engine](size, m.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create engine cache: %w", err)
	}
	m.engines = cache
	return m, nil
}

// Open returns the hydrated engine of identity, creating it on first use.
// Concurrent opens of the same identity share one hydration.
func (m *Manager) Open(ctx context.Context, identity string) (*Engine, error) {
	if identity == "" {
		return nil, store.ErrEmptyIdentity
	}
	if e, err := m.live(ctx, identity); e != nil || err != nil {
		return e, err
	}

	v, err, _ := m.group.Do(identity, func() (any, error) {
		if e, err := m.live(ctx, identity); e != nil || err != nil {
			return e, err
		}
		e := NewEngine(identity, m.repo, m.catalog, m.opts...)
		if err := e.Hydrate(ctx); err != nil {
			return nil, err
		}
		m.mutate(func() { m.engines.Add(identity, e) })
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Engine), nil
}

// live returns the cached engine of identity, or nil if there is none. If
// the identity is closing it first waits for the close to finish.
func (m *Manager) live(ctx context.Context, identity string) (*Engine, error) {
	for {
		m.mu.Lock()
		if e, ok := m.engines.Get(identity); ok {
			m.mu.Unlock()
			return e, nil
		}
		done, closing := m.closing[identity]
		m.mu.Unlock()
		if !closing {
			return nil, nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for %q to close: %w", identity, ctx.Err())
		}
	}
}

// Get returns the live engine of identity without creating one.
func (m *Manager) Get(identity string) (*Engine, bool) {
	return m.engines.Peek(identity)
}

// Logout closes the engine of identity and forgets it. It reports whether
// an engine was live. The close has finished when Logout returns.
func (m *Manager) Logout(identity string) bool {
	var present bool
	m.mutate(func() { present = m.engines.Remove(identity) })
	return present
}

// Len returns the number of live engines.
func (m *Manager) Len() int {
	return m.engines.Len()
}

// Close closes every live engine.
func (m *Manager) Close() {
	m.mutate(m.engines.Purge)
}

// mutate runs fn against the cache under mu, then closes whatever engines
// fn evicted once mu is released.
func (m *Manager) mutate(fn func()) {
	m.mu.Lock()
	fn()
	evicted := m.evicted
	m.evicted = nil
	m.mu.Unlock()

	for _, e := range evicted {
		m.closeEngine(e)
	}
	m.observer.SetActiveEngines(m.engines.Len())
}

// onEvict is called by the cache inside mutate, with mu held. It only
// records the close; mutate performs it.
func (m *Manager) onEvict(identity string, e *Engine) {
	m.closing[identity] = make(chan struct{})
	m.evicted = append(m.evicted, e)
}

func (m *Manager) closeEngine(e *Engine) {
	identity := e.Identity()
	if err := e.Close(); err != nil {
		m.logger.Warn("close evicted engine", zap.String("identity", identity), zap.Error(err))
	}

	m.mu.Lock()
	done := m.closing[identity]
	delete(m.closing, identity)
	m.mu.Unlock()
	if done != nil {
		close(done)
	}
}
