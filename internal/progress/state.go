package progress

import (
	"time"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/store"
)

// GameState is the in-memory state of one learner.
type GameState struct {
	Credits   int
	Interests []interests.Key
	Progress  map[interests.Key]Record
}

func newGameState() GameState {
	return GameState{
		Interests: []interests.Key{},
		Progress:  map[interests.Key]Record{},
	}
}

func (g GameState) clone() GameState {
	out := GameState{
		Credits:   g.Credits,
		Interests: append([]interests.Key{}, g.Interests...),
		Progress:  make(map[interests.Key]Record, len(g.Progress)),
	}
	for k, r := range g.Progress {
		out.Progress[k] = r.clone()
	}
	return out
}

func (g GameState) hasInterest(key interests.Key) bool {
	for _, k := range g.Interests {
		if k == key {
			return true
		}
	}
	return false
}

// allComplete reports whether every selected interest has passed all of its
// catalog stages. An empty selection is never complete.
func (g GameState) allComplete(catalog interests.Catalog) bool {
	if len(g.Interests) == 0 {
		return false
	}
	for _, k := range g.Interests {
		r, ok := g.Progress[k]
		if !ok || !r.Complete(catalog.TotalStages(k)) {
			return false
		}
	}
	return true
}

// Snapshot is a read-only copy of a learner's state.
type Snapshot struct {
	Identity             string
	Ready                bool
	Credits              int
	Interests            []interests.Key
	Progress             map[interests.Key]Record
	AllInterestsComplete bool
}

// Record returns the progress of one interest.
func (s Snapshot) Record(key interests.Key) (Record, bool) {
	r, ok := s.Progress[key]
	return r, ok
}

// toDocument converts the state into its full persisted form.
func (g GameState) toDocument() store.Document {
	return store.Document{
		Credits:   g.Credits,
		Interests: interests.Strings(g.Interests),
		Progress:  g.progressEntries(),
	}
}

func (g GameState) fullPatch() store.Patch {
	doc := g.toDocument()
	credits := doc.Credits
	return store.Patch{Credits: &credits, Interests: doc.Interests, Progress: doc.Progress}
}

func (g GameState) creditsPatch() store.Patch {
	credits := g.Credits
	return store.Patch{Credits: &credits}
}

func (g GameState) progressEntries() map[string]store.ProgressEntry {
	out := make(map[string]store.ProgressEntry, len(g.Progress))
	for k, r := range g.Progress {
		e := store.ProgressEntry{UnlockedStage: r.UnlockedStage, Hearts: r.Hearts}
		if r.LastHeartLostAt != nil {
			ms := r.LastHeartLostAt.UnixMilli()
			e.LastHeartLost = &ms
		}
		out[string(k)] = e
	}
	return out
}

// fromDocument rebuilds state from a stored document. Unknown interest keys
// are dropped, counts are clamped and the heart clock invariant is restored.
func fromDocument(doc *store.Document, now time.Time) GameState {
	g := newGameState()
	if doc == nil {
		return g
	}
	g.Credits = max(doc.Credits, 0)

	for _, s := range doc.Interests {
		k, err := interests.Parse(s)
		if err != nil || g.hasInterest(k) {
			continue
		}
		g.Interests = append(g.Interests, k)
	}

	for s, e := range doc.Progress {
		k, err := interests.Parse(s)
		if err != nil {
			continue
		}
		r := Record{
			UnlockedStage: max(e.UnlockedStage, 1),
			Hearts:        min(max(e.Hearts, 0), MaxHearts),
		}
		if r.Hearts < MaxHearts {
			t := now
			if e.LastHeartLost != nil {
				t = time.UnixMilli(*e.LastHeartLost)
			}
			r.LastHeartLostAt = &t
		}
		g.Progress[k] = r
	}
	return g
}
