package progress

import (
	"fmt"

	"github.com/abhisek/learnquest/internal/interests"
)

// Policy holds the selection rules that differ between deployments.
type Policy struct {
	// MinSelect and MaxSelect bound the size of an initial selection.
	MinSelect int
	MaxSelect int

	// ResetClearsInterests makes ResetGame drop the selection along with the
	// progress instead of keeping the interests in place.
	ResetClearsInterests bool
}

// DefaultPolicy returns the 2-3 interest selection that keeps interests on reset.
func DefaultPolicy() Policy {
	return Policy{MinSelect: 2, MaxSelect: 3}
}

func (p Policy) validateSelection(keys []interests.Key) error {
	if len(keys) < p.MinSelect || len(keys) > p.MaxSelect {
		return fmt.Errorf("%w: select %d to %d interests, got %d",
			ErrInvalidSelection, p.MinSelect, p.MaxSelect, len(keys))
	}
	seen := make(map[interests.Key]bool, len(keys))
	for _, k := range keys {
		if !k.Valid() {
			return fmt.Errorf("%w: unknown interest %q", ErrInvalidSelection, k)
		}
		if seen[k] {
			return fmt.Errorf("%w: %q selected twice", ErrInvalidSelection, k)
		}
		seen[k] = true
	}
	return nil
}
