package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/learnquest/internal/config"
	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/metrics"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/store"
)

// openBackend opens the configured storage engine.
func openBackend(ctx context.Context, c config.Config) (store.Backend, error) {
	switch c.Store.Driver {
	case "postgres":
		pg, err := store.OpenPostgres(ctx, c.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return pg, nil
	default:
		dbPath, err := resolveDBPath(c)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return st, nil
	}
}

// resolveDBPath returns the database path using store.path (--db flag or
// LEARNQUEST_STORE_PATH) first, then LEARNQUEST_DB, then the default XDG path.
func resolveDBPath(c config.Config) (string, error) {
	if p := c.Store.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// policyFrom converts the selection config into engine rules.
func policyFrom(c config.Config) progress.Policy {
	return progress.Policy{
		MinSelect:            c.Selection.Min,
		MaxSelect:            c.Selection.Max,
		ResetClearsInterests: c.Selection.ResetClearsInterests,
	}
}

// newManager builds the engine registry over backend.
func newManager(c config.Config, backend store.Backend, observer metrics.Observer) (*progress.Manager, error) {
	return progress.NewManager(backend.GameStateRepo(), interests.DefaultCatalog(), c.CacheSize, logger, observer,
		progress.WithTickInterval(c.TickInterval),
		progress.WithPolicy(policyFrom(c)),
	)
}
