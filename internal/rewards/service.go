package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/learnquest/internal/store"
)

var (
	// ErrUnknownGoodie is returned for an id that names no goodie.
	ErrUnknownGoodie = errors.New("unknown goodie")

	// ErrNotUnlocked is returned when claiming a goodie above the learner's credits.
	ErrNotUnlocked = errors.New("goodie not unlocked")

	// ErrNotClaimable is returned when claiming a goodie that is not a real-world item.
	ErrNotClaimable = errors.New("goodie not claimable")
)

// Service tracks real-world goodie claims.
type Service struct {
	claims store.ClaimRepo
}

// NewService creates a rewards service backed by claims.
func NewService(claims store.ClaimRepo) *Service {
	return &Service{claims: claims}
}

// Claim records a claim for goodieID by identity holding credits.
func (s *Service) Claim(ctx context.Context, identity string, credits, goodieID int) (*store.Claim, error) {
	g, ok := Find(goodieID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGoodie, goodieID)
	}
	if !g.Claimable() {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotClaimable, g.Name, g.Type)
	}
	if credits < g.Threshold() {
		return nil, fmt.Errorf("%w: %s needs %d credits", ErrNotUnlocked, g.Name, g.Threshold())
	}
	c, err := s.claims.Claim(ctx, identity, goodieID)
	if err != nil {
		return nil, fmt.Errorf("claim %s: %w", g.Name, err)
	}
	return c, nil
}

// Statuses returns every goodie with its unlock and claim state for identity.
func (s *Service) Statuses(ctx context.Context, identity string, credits int) ([]Status, error) {
	claims, err := s.claims.List(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	claimed := make(map[int]bool, len(claims))
	for _, c := range claims {
		claimed[c.GoodieID] = true
	}

	out := make([]Status, 0, len(allGoodies))
	for _, g := range allGoodies {
		out = append(out, Status{
			Goodie:   g,
			Unlocked: credits >= g.Threshold(),
			Claimed:  claimed[g.ID],
		})
	}
	return out, nil
}
