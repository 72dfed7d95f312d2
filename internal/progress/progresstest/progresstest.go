// Package progresstest builds hydrated engines over a throwaway SQLite store
// for tests of packages that drive a progress.Engine.
package progresstest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/store"
)

// Env is a store plus one hydrated engine.
type Env struct {
	Store  *store.Store
	Engine *progress.Engine
}

// New opens a store in t.TempDir and hydrates an engine for identity using
// the default catalog. The background ticker is disabled unless opts
// re-enable it. Everything is closed when the test ends.
func New(t testing.TB, identity string, opts ...progress.Option) *Env {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "learnquest.db"))
	require.NoError(t, err)

	opts = append([]progress.Option{progress.WithTickInterval(0)}, opts...)
	e := progress.NewEngine(identity, st.GameStateRepo(), interests.DefaultCatalog(), opts...)
	require.NoError(t, e.Hydrate(context.Background()))

	t.Cleanup(func() {
		_ = e.Close()
		_ = st.Close()
	})
	return &Env{Store: st, Engine: e}
}

// WithInterests is New followed by selecting keys.
func WithInterests(t testing.TB, identity string, keys []interests.Key, opts ...progress.Option) *Env {
	t.Helper()
	env := New(t, identity, opts...)
	require.NoError(t, env.Engine.SelectInterests(keys))
	return env
}
