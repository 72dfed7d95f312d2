package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const tableGoodieClaims = "goodie_claims"

// claimRepo implements ClaimRepo on SQLite using ent's SQL builders.
type claimRepo struct {
	drv *entsql.Driver
}

func (r *claimRepo) Claim(ctx context.Context, identity string, goodieID int) (*Claim, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	c := &Claim{
		ID:        uuid.New(),
		Identity:  identity,
		GoodieID:  goodieID,
		ClaimedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableGoodieClaims).
		Columns("id", "identity", "goodie_id", "claimed_at").
		Values(c.ID.String(), c.Identity, c.GoodieID, c.ClaimedAt.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("identity", "goodie_id"),
			entsql.DoNothing(),
		).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}
	if n == 0 {
		return nil, ErrAlreadyClaimed
	}
	return c, nil
}

func (r *claimRepo) List(ctx context.Context, identity string) ([]Claim, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("id", "identity", "goodie_id", "claimed_at").
		From(b.Table(tableGoodieClaims)).
		Where(entsql.EQ("identity", identity)).
		OrderBy("claimed_at", "goodie_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var claims []Claim
	for rows.Next() {
		var (
			c         Claim
			id        string
			claimedAt int64
		)
		if err := rows.Scan(&id, &c.Identity, &c.GoodieID, &claimedAt); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse claim id: %w", err)
		}
		c.ID = parsed
		c.ClaimedAt = time.UnixMilli(claimedAt).UTC()
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
