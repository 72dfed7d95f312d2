package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyClaimed is returned when a goodie was claimed before by the same identity.
	ErrAlreadyClaimed = errors.New("goodie already claimed")

	// ErrEmptyIdentity is returned for reads and writes without an identity.
	ErrEmptyIdentity = errors.New("empty identity")
)

// ProgressEntry is the persisted form of one interest's progress record.
type ProgressEntry struct {
	UnlockedStage int    `json:"unlockedStage"`
	Hearts        int    `json:"hearts"`
	LastHeartLost *int64 `json:"lastHeartLost"` // unix milliseconds
}

// Document is the persisted game state of one identity.
type Document struct {
	Credits   int                      `json:"credits"`
	Interests []string                 `json:"interests"`
	Progress  map[string]ProgressEntry `json:"progress"`
}

// Patch is a partial document for a merge-write. Nil fields are left untouched.
type Patch struct {
	Credits   *int
	Interests []string
	Progress  map[string]ProgressEntry
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.Credits == nil && p.Interests == nil && p.Progress == nil
}

// Merge returns p overlaid with the non-nil fields of next.
func (p Patch) Merge(next Patch) Patch {
	if next.Credits != nil {
		p.Credits = next.Credits
	}
	if next.Interests != nil {
		p.Interests = next.Interests
	}
	if next.Progress != nil {
		p.Progress = next.Progress
	}
	return p
}

// DefaultLeaderboardLimit caps a leaderboard query whose limit is not positive.
const DefaultLeaderboardLimit = 100

// LeaderboardEntry is one ranked identity.
type LeaderboardEntry struct {
	Identity string `json:"identity"`
	Credits  int    `json:"credits"`
}

// Claim records a real-world goodie claimed by a learner.
type Claim struct {
	ID        uuid.UUID `json:"id"`
	Identity  string    `json:"identity"`
	GoodieID  int       `json:"goodie_id"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// GameStateRepo persists game state documents keyed by identity.
type GameStateRepo interface {
	// Read returns the stored document, or nil if none exists.
	Read(ctx context.Context, identity string) (*Document, error)

	// MergeWrite creates or updates the document, writing only the patch's non-nil fields.
	MergeWrite(ctx context.Context, identity string, patch Patch) error

	// Leaderboard returns identities with positive credits, highest first.
	// A non-positive limit means DefaultLeaderboardLimit.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// ClaimRepo records goodie claims.
type ClaimRepo interface {
	// Claim records a claim, returning ErrAlreadyClaimed on a repeat.
	Claim(ctx context.Context, identity string, goodieID int) (*Claim, error)

	// List returns all claims of an identity, oldest first.
	List(ctx context.Context, identity string) ([]Claim, error)
}

// Backend is a storage engine serving all repositories.
type Backend interface {
	GameStateRepo() GameStateRepo
	ClaimRepo() ClaimRepo
	Ping(ctx context.Context) error
	Close() error
}
