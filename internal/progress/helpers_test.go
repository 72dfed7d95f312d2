package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/store"
)

var errStoreDown = errors.New("store down")

// memRepo is an in-memory store.GameStateRepo that records every write.
type memRepo struct {
	mu       sync.Mutex
	docs     map[string]store.Document
	writes   []store.Patch
	reads    int
	readErr  error
	writeErr error
}

func newMemRepo() *memRepo {
	return &memRepo{docs: map[string]store.Document{}}
}

func (r *memRepo) Read(_ context.Context, identity string) (*store.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.readErr != nil {
		return nil, r.readErr
	}
	doc, ok := r.docs[identity]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *memRepo) MergeWrite(_ context.Context, identity string, patch store.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	r.writes = append(r.writes, patch)
	doc := r.docs[identity]
	if patch.Credits != nil {
		doc.Credits = *patch.Credits
	}
	if patch.Interests != nil {
		doc.Interests = patch.Interests
	}
	if patch.Progress != nil {
		doc.Progress = patch.Progress
	}
	r.docs[identity] = doc
	return nil
}

func (r *memRepo) Leaderboard(_ context.Context, _ int) ([]store.LeaderboardEntry, error) {
	return nil, nil
}

func (r *memRepo) doc(identity string) store.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs[identity]
}

func (r *memRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestEngine returns a hydrated engine without a background ticker.
func newTestEngine(t *testing.T, repo *memRepo, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now), WithTickInterval(0)}, opts...)
	e := NewEngine("kid-1", repo, interests.DefaultCatalog(), opts...)
	require.NoError(t, e.Hydrate(context.Background()))
	t.Cleanup(func() { _ = e.Close() })
	return e, clock
}

func timePtr(t time.Time) *time.Time { return &t }

func int64Ptr(v int64) *int64 { return &v }

// gatedRepo is a memRepo whose next MergeWrite can be held until released.
type gatedRepo struct {
	*memRepo
	gateMu  sync.Mutex
	gate    chan struct{}
	entered chan struct{}
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{memRepo: newMemRepo()}
}

// hold makes the next MergeWrite block. The returned channel is closed once
// that write has started; release lets it finish.
func (r *gatedRepo) hold() (<-chan struct{}, func()) {
	r.gateMu.Lock()
	defer r.gateMu.Unlock()
	r.gate = make(chan struct{})
	r.entered = make(chan struct{})
	gate := r.gate
	return r.entered, func() { close(gate) }
}

func (r *gatedRepo) MergeWrite(ctx context.Context, identity string, patch store.Patch) error {
	r.gateMu.Lock()
	gate, entered := r.gate, r.entered
	r.gate, r.entered = nil, nil
	r.gateMu.Unlock()

	if gate != nil {
		close(entered)
		<-gate
	}
	return r.memRepo.MergeWrite(ctx, identity, patch)
}
