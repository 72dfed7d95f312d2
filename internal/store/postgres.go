package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS game_states (
		identity   TEXT PRIMARY KEY,
		doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS goodie_claims (
		id         UUID PRIMARY KEY,
		identity   TEXT NOT NULL,
		goodie_id  INTEGER NOT NULL,
		claimed_at TIMESTAMPTZ NOT NULL,
		UNIQUE (identity, goodie_id)
	)`,
}

// PGStore is a PostgreSQL Backend. Game state lives in one JSONB document per
// identity and merge-writes are top-level JSONB merges.
type PGStore struct {
	pool *pgxpool.Pool
}

var _ Backend = (*PGStore)(nil)

// OpenPostgres connects to PostgreSQL at dsn and creates the schema.
func OpenPostgres(ctx context.Context, dsn string) (*PGStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	return &PGStore{pool: pool}, nil
}

// Ping verifies the database is reachable.
func (s *PGStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PGStore) GameStateRepo() GameStateRepo {
	return &pgGameStateRepo{pool: s.pool}
}

func (s *PGStore) ClaimRepo() ClaimRepo {
	return &pgClaimRepo{pool: s.pool}
}

type pgGameStateRepo struct {
	pool *pgxpool.Pool
}

func (r *pgGameStateRepo) Read(ctx context.Context, identity string) (*Document, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT doc FROM game_states WHERE identity = $1`, identity).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query game state: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	normalize(&doc)
	return &doc, nil
}

func (r *pgGameStateRepo) MergeWrite(ctx context.Context, identity string, patch Patch) error {
	if identity == "" {
		return ErrEmptyIdentity
	}

	fields := make(map[string]any, 3)
	if patch.Credits != nil {
		fields["credits"] = *patch.Credits
	}
	if patch.Interests != nil {
		fields["interests"] = patch.Interests
	}
	if patch.Progress != nil {
		fields["progress"] = patch.Progress
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO game_states (identity, doc, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (identity) DO UPDATE
		SET doc = game_states.doc || EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		identity, string(raw))
	if err != nil {
		return fmt.Errorf("merge game state: %w", err)
	}
	return nil
}

func (r *pgGameStateRepo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT identity, COALESCE((doc->>'credits')::bigint, 0) AS credits
		FROM game_states
		WHERE COALESCE((doc->>'credits')::bigint, 0) > 0
		ORDER BY credits DESC, identity ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Identity, &e.Credits); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type pgClaimRepo struct {
	pool *pgxpool.Pool
}

func (r *pgClaimRepo) Claim(ctx context.Context, identity string, goodieID int) (*Claim, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	c := &Claim{
		ID:        uuid.New(),
		Identity:  identity,
		GoodieID:  goodieID,
		ClaimedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO goodie_claims (id, identity, goodie_id, claimed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity, goodie_id) DO NOTHING`,
		c.ID, c.Identity, c.GoodieID, c.ClaimedAt)
	if err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAlreadyClaimed
	}
	return c, nil
}

func (r *pgClaimRepo) List(ctx context.Context, identity string) ([]Claim, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, identity, goodie_id, claimed_at
		FROM goodie_claims
		WHERE identity = $1
		ORDER BY claimed_at, goodie_id`, identity)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var claims []Claim
	for rows.Next() {
		var c Claim
		if err := rows.Scan(&c.ID, &c.Identity, &c.GoodieID, &c.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
