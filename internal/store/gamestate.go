package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const (
	tableGameStates = "game_states"

	colIdentity  = "identity"
	colCredits   = "credits"
	colInterests = "interests"
	colProgress  = "progress"
	colUpdatedAt = "updated_at"
)

// gameStateRepo implements GameStateRepo on SQLite using ent's SQL builders.
type gameStateRepo struct {
	drv *entsql.Driver
}

func (r *gameStateRepo) Read(ctx context.Context, identity string) (*Document, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(colCredits, colInterests, colProgress).
		From(b.Table(tableGameStates)).
		Where(entsql.EQ(colIdentity, identity)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query game state: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query game state: %w", err)
		}
		return nil, nil
	}

	var (
		doc                 Document
		interests, progress string
	)
	if err := rows.Scan(&doc.Credits, &interests, &progress); err != nil {
		return nil, fmt.Errorf("scan game state: %w", err)
	}
	if err := json.Unmarshal([]byte(interests), &doc.Interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if err := json.Unmarshal([]byte(progress), &doc.Progress); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	normalize(&doc)
	return &doc, nil
}

func (r *gameStateRepo) MergeWrite(ctx context.Context, identity string, patch Patch) error {
	if identity == "" {
		return ErrEmptyIdentity
	}

	// Values for a fresh row; on conflict only the patched columns are taken.
	var (
		credits   = 0
		interests = "[]"
		progress  = "{}"
		updated   = []string{colUpdatedAt}
	)
	if patch.Credits != nil {
		credits = *patch.Credits
		updated = append(updated, colCredits)
	}
	if patch.Interests != nil {
		b, err := json.Marshal(patch.Interests)
		if err != nil {
			return fmt.Errorf("encode interests: %w", err)
		}
		interests = string(b)
		updated = append(updated, colInterests)
	}
	if patch.Progress != nil {
		b, err := json.Marshal(patch.Progress)
		if err != nil {
			return fmt.Errorf("encode progress: %w", err)
		}
		progress = string(b)
		updated = append(updated, colProgress)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableGameStates).
		Columns(colIdentity, colCredits, colInterests, colProgress, colUpdatedAt).
		Values(identity, credits, interests, progress, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns(colIdentity),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range updated {
					u.SetExcluded(c)
				}
			}),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("merge game state: %w", err)
	}
	return nil
}

func (r *gameStateRepo) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(colIdentity, colCredits).
		From(b.Table(tableGameStates)).
		Where(entsql.GT(colCredits, 0)).
		OrderBy(entsql.Desc(colCredits), colIdentity).
		Limit(limit).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
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

// normalize replaces nil collections so callers can range and index freely.
func normalize(doc *Document) {
	if doc.Interests == nil {
		doc.Interests = []string{}
	}
	if doc.Progress == nil {
		doc.Progress = map[string]ProgressEntry{}
	}
}
