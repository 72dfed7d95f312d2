package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHydrate_MissingDocumentPersistsFresh(t *testing.T) {
	repo := newMemRepo()
	e, _ := newTestEngine(t, repo)

	require.NoError(t, e.Flush(context.Background()))
	snap := e.Snapshot()
	assert.True(t, snap.Ready)
	assert.Equal(t, 0, snap.Credits)
	assert.Empty(t, snap.Interests)
	assert.False(t, snap.AllInterestsComplete)

	doc := repo.doc("kid-1")
	assert.Equal(t, []string{}, doc.Interests)
	assert.Equal(t, map[string]store.ProgressEntry{}, doc.Progress)
}

func TestHydrate_ExistingDocument(t *testing.T) {
	repo := newMemRepo()
	repo.docs["kid-1"] = store.Document{
		Credits:   70,
		Interests: []string{"math", "science", "cooking"},
		Progress: map[string]store.ProgressEntry{
			"math":    {UnlockedStage: 3, Hearts: 1, LastHeartLost: int64Ptr(1_700_000_000_000)},
			"science": {UnlockedStage: 1, Hearts: 3},
		},
	}
	e, _ := newTestEngine(t, repo)

	snap := e.Snapshot()
	assert.Equal(t, 70, snap.Credits)
	assert.Equal(t, []interests.Key{interests.Math, interests.Science}, snap.Interests)

	math, ok := snap.Record(interests.Math)
	require.True(t, ok)
	assert.Equal(t, 3, math.UnlockedStage)
	assert.Equal(t, 1, math.Hearts)
	require.NotNil(t, math.LastHeartLostAt)
	assert.Equal(t, int64(1_700_000_000_000), math.LastHeartLostAt.UnixMilli())

	science, _ := snap.Record(interests.Science)
	assert.Nil(t, science.LastHeartLostAt)
	assert.Equal(t, 0, repo.writeCount(), "existing documents are not rewritten on hydrate")
}

func TestHydrate_ReadFailureFallsBackFresh(t *testing.T) {
	repo := newMemRepo()
	repo.readErr = errStoreDown
	repo.docs["kid-1"] = store.Document{Credits: 500}

	core, logs := observer.New(zapcore.WarnLevel)
	e, _ := newTestEngine(t, repo, WithLogger(zap.New(core)))

	snap := e.Snapshot()
	assert.True(t, snap.Ready)
	assert.Equal(t, 0, snap.Credits)
	assert.Equal(t, 1, logs.FilterMessage("read game state failed, starting fresh").Len())

	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, 500, repo.doc("kid-1").Credits, "read failure must not overwrite the stored document")
}

func TestHydrate_Idempotent(t *testing.T) {
	repo := newMemRepo()
	e, _ := newTestEngine(t, repo)
	require.NoError(t, e.Hydrate(context.Background()))
	assert.Equal(t, 1, repo.reads)
}

func TestMutationsBeforeHydrate(t *testing.T) {
	e := NewEngine("kid-1", newMemRepo(), interests.DefaultCatalog())
	defer e.Close()

	assert.False(t, e.Ready())
	assert.ErrorIs(t, e.AddCredits(10), ErrNotReady)
	assert.ErrorIs(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}), ErrNotReady)
	assert.ErrorIs(t, e.LoseHeart(interests.Math), ErrNotReady)
	assert.ErrorIs(t, e.ResetGame(), ErrNotReady)
	_, err := e.RecordAnswer(interests.Math, 1, true)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.False(t, e.Tick(time.Now()))
}

func TestSelectInterests(t *testing.T) {
	e, _ := newTestEngine(t, newMemRepo())

	assert.ErrorIs(t, e.SelectInterests([]interests.Key{interests.Math}), ErrInvalidSelection)
	assert.ErrorIs(t, e.SelectInterests([]interests.Key{
		interests.Math, interests.Science, interests.English, interests.Sports,
	}), ErrInvalidSelection)
	assert.ErrorIs(t, e.SelectInterests([]interests.Key{interests.Math, "cooking"}), ErrInvalidSelection)
	assert.ErrorIs(t, e.SelectInterests([]interests.Key{interests.Math, interests.Math}), ErrInvalidSelection)
	assert.ErrorIs(t, e.SelectInterests(nil), ErrInvalidSelection)
	assert.Empty(t, e.Snapshot().Interests, "rejected selections leave state unchanged")

	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	snap := e.Snapshot()
	assert.Equal(t, []interests.Key{interests.Math, interests.Science}, snap.Interests)
	assert.Equal(t, NewRecord(), snap.Progress[interests.Math])
}

func TestSelectInterests_KeepsExistingRecords(t *testing.T) {
	e, _ := newTestEngine(t, newMemRepo())
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	require.NoError(t, e.CompleteStage(interests.Math, 1))

	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Sports}))
	snap := e.Snapshot()
	assert.Equal(t, 2, snap.Progress[interests.Math].UnlockedStage)
	_, ok := snap.Record(interests.Science)
	assert.True(t, ok, "deselected records are retained")
	assert.Equal(t, NewRecord(), snap.Progress[interests.Sports])
}

func TestAddCredits(t *testing.T) {
	repo := newMemRepo()
	e, _ := newTestEngine(t, repo)

	assert.ErrorIs(t, e.AddCredits(0), ErrInvalidAmount)
	assert.ErrorIs(t, e.AddCredits(-5), ErrInvalidAmount)
	require.NoError(t, e.AddCredits(10))
	require.NoError(t, e.AddCredits(15))
	assert.Equal(t, 25, e.Snapshot().Credits)

	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, 25, repo.doc("kid-1").Credits)
}

func TestLoseHeart_NeverNegative(t *testing.T) {
	e, clock := newTestEngine(t, newMemRepo())
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	start := clock.Now()

	for i := 0; i < 6; i++ {
		require.NoError(t, e.LoseHeart(interests.Math))
		clock.Advance(time.Second)
	}
	rec, _ := e.Snapshot().Record(interests.Math)
	assert.Equal(t, 0, rec.Hearts)
	require.NotNil(t, rec.LastHeartLostAt)
	assert.True(t, start.Equal(*rec.LastHeartLostAt))
	assert.Equal(t, StageBlocked, rec.StageStatus(1))
}

func TestMissingRecordIsNoop(t *testing.T) {
	repo := newMemRepo()
	e, _ := newTestEngine(t, repo)
	require.NoError(t, e.Flush(context.Background()))
	writes := repo.writeCount()

	require.NoError(t, e.LoseHeart(interests.Math))
	require.NoError(t, e.ResetHearts(interests.Math))
	require.NoError(t, e.CompleteStage(interests.Math, 1))
	require.NoError(t, e.Flush(context.Background()))

	_, ok := e.Snapshot().Record(interests.Math)
	assert.False(t, ok)
	assert.Equal(t, writes, repo.writeCount())
}

func TestResetHearts(t *testing.T) {
	e, _ := newTestEngine(t, newMemRepo())
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	require.NoError(t, e.LoseHeart(interests.Math))
	require.NoError(t, e.LoseHeart(interests.Math))

	require.NoError(t, e.ResetHearts(interests.Math))
	rec, _ := e.Snapshot().Record(interests.Math)
	assert.Equal(t, MaxHearts, rec.Hearts)
	assert.Nil(t, rec.LastHeartLostAt)
}

func TestResetGame_PreservesInterests(t *testing.T) {
	repo := newMemRepo()
	e, _ := newTestEngine(t, repo)
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	require.NoError(t, e.AddCredits(40))
	require.NoError(t, e.CompleteStage(interests.Math, 1))
	require.NoError(t, e.LoseHeart(interests.Science))

	require.NoError(t, e.ResetGame())
	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Credits)
	assert.Equal(t, []interests.Key{interests.Math, interests.Science}, snap.Interests)
	for _, k := range snap.Interests {
		assert.Equal(t, NewRecord(), snap.Progress[k])
	}

	require.NoError(t, e.Flush(context.Background()))
	doc := repo.doc("kid-1")
	assert.Equal(t, 0, doc.Credits)
	assert.Equal(t, []string{"math", "science"}, doc.Interests)
	assert.Equal(t, store.ProgressEntry{UnlockedStage: 1, Hearts: 3}, doc.Progress["math"])
}

func TestResetGame_PolicyClearsInterests(t *testing.T) {
	policy := DefaultPolicy()
	policy.ResetClearsInterests = true
	e, _ := newTestEngine(t, newMemRepo(), WithPolicy(policy))
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))

	require.NoError(t, e.ResetGame())
	snap := e.Snapshot()
	assert.Empty(t, snap.Interests)
	assert.Empty(t, snap.Progress)
}

func TestTick(t *testing.T) {
	repo := newMemRepo()
	e, clock := newTestEngine(t, repo)
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	start := clock.Now()
	require.NoError(t, e.LoseHeart(interests.Math))
	require.NoError(t, e.LoseHeart(interests.Math))
	require.NoError(t, e.LoseHeart(interests.Math))
	require.NoError(t, e.LoseHeart(interests.Science))
	require.NoError(t, e.Flush(context.Background()))
	writes := repo.writeCount()

	assert.False(t, e.Tick(start.Add(10*time.Second)))
	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, writes, repo.writeCount(), "no-op ticks do not write")

	assert.True(t, e.Tick(start.Add(25*time.Second)))
	snap := e.Snapshot()
	math := snap.Progress[interests.Math]
	assert.Equal(t, 1, math.Hearts)
	assert.True(t, start.Add(20*time.Second).Equal(*math.LastHeartLostAt))
	science := snap.Progress[interests.Science]
	assert.Equal(t, 3, science.Hearts)
	assert.Nil(t, science.LastHeartLostAt)

	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, writes+1, repo.writeCount(), "one batched write per tick")
	entry := repo.doc("kid-1").Progress["math"]
	require.NotNil(t, entry.LastHeartLost)
	assert.Equal(t, start.Add(20*time.Second).UnixMilli(), *entry.LastHeartLost)
}

func TestAllInterestsComplete_FiveStageMath(t *testing.T) {
	catalog := interests.StaticCatalog{interests.Math: make([]interests.Stage, 5)}
	for i := range catalog[interests.Math] {
		catalog[interests.Math][i].ID = i + 1
	}

	clock := newFakeClock()
	e := NewEngine("kid-1", newMemRepo(), catalog,
		WithClock(clock.Now), WithTickInterval(0), WithPolicy(Policy{MinSelect: 1, MaxSelect: 3}))
	require.NoError(t, e.Hydrate(context.Background()))
	defer e.Close()

	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math}))
	for s := 1; s <= 4; s++ {
		require.NoError(t, e.CompleteStage(interests.Math, s))
		assert.False(t, e.Snapshot().AllInterestsComplete)
	}
	assert.Equal(t, 5, e.Snapshot().Progress[interests.Math].UnlockedStage)

	require.NoError(t, e.CompleteStage(interests.Math, 5))
	snap := e.Snapshot()
	assert.Equal(t, 6, snap.Progress[interests.Math].UnlockedStage)
	assert.True(t, snap.AllInterestsComplete)
}

func TestAddInterest(t *testing.T) {
	e, _ := newTestEngine(t, newMemRepo())
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))

	assert.ErrorIs(t, e.AddInterest(interests.Math), ErrDuplicateInterest)
	assert.ErrorIs(t, e.AddInterest(interests.English), ErrNotAllComplete)
	assert.ErrorIs(t, e.AddInterest("cooking"), ErrInvalidSelection)

	catalog := interests.DefaultCatalog()
	for _, k := range []interests.Key{interests.Math, interests.Science} {
		for s := 1; s <= catalog.TotalStages(k); s++ {
			require.NoError(t, e.CompleteStage(k, s))
		}
	}
	require.True(t, e.Snapshot().AllInterestsComplete)

	require.NoError(t, e.AddInterest(interests.English))
	snap := e.Snapshot()
	assert.Equal(t, []interests.Key{interests.Math, interests.Science, interests.English}, snap.Interests)
	assert.Equal(t, NewRecord(), snap.Progress[interests.English])
	assert.False(t, snap.AllInterestsComplete)
}

func TestRecordAnswer(t *testing.T) {
	repo := newMemRepo()
	e, _ := newTestEngine(t, repo)
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))

	out, err := e.RecordAnswer(interests.Math, 1, true)
	require.NoError(t, err)
	assert.Equal(t, StageReward, out.Earned())
	assert.Equal(t, 2, out.Record.UnlockedStage)

	_, err = e.RecordAnswer(interests.Math, 3, true)
	assert.ErrorIs(t, err, ErrStageLocked)
	_, err = e.RecordAnswer(interests.Math, 99, true)
	assert.ErrorIs(t, err, ErrUnknownStage)
	_, err = e.RecordAnswer(interests.English, 1, true)
	assert.ErrorIs(t, err, ErrUnknownInterest)

	out, err = e.RecordAnswer(interests.Math, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Earned())
	assert.Equal(t, 2, out.Record.Hearts)
	assert.Equal(t, StagePlayable, out.Record.StageStatus(2))

	_, err = e.RecordAnswer(interests.Math, 2, false)
	require.NoError(t, err)
	_, err = e.RecordAnswer(interests.Math, 2, false)
	require.NoError(t, err)
	_, err = e.RecordAnswer(interests.Math, 2, true)
	assert.ErrorIs(t, err, ErrNoHearts)

	// Replaying a completed stage still pays out.
	out, err = e.RecordAnswer(interests.Science, 1, true)
	require.NoError(t, err)
	out, err = e.RecordAnswer(interests.Science, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Record.UnlockedStage)
	assert.Equal(t, 30, out.CreditsAfter)

	require.NoError(t, e.Flush(context.Background()))
	doc := repo.doc("kid-1")
	assert.Equal(t, 30, doc.Credits)
	assert.Equal(t, 0, doc.Progress["math"].Hearts)
}

func TestWriteFailureIsLoggedNotRolledBack(t *testing.T) {
	repo := newMemRepo()
	core, logs := observer.New(zapcore.ErrorLevel)
	e, _ := newTestEngine(t, repo, WithLogger(zap.New(core)))
	require.NoError(t, e.Flush(context.Background()))

	repo.mu.Lock()
	repo.writeErr = errStoreDown
	repo.mu.Unlock()

	require.NoError(t, e.AddCredits(20))
	// The background writer may take the patch first; either way the
	// attempt has finished once Flush returns.
	err := e.Flush(context.Background())
	if err != nil {
		assert.True(t, errors.Is(err, errStoreDown))
	}
	assert.Equal(t, 20, e.Snapshot().Credits)

	entries := logs.FilterMessage("persist game state failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kid-1", entries[0].ContextMap()["identity"])

	repo.mu.Lock()
	repo.writeErr = nil
	repo.mu.Unlock()
	require.NoError(t, e.AddCredits(5))
	require.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, 25, repo.doc("kid-1").Credits, "next write reconciles")
}

func TestWritesPreserveOrder(t *testing.T) {
	repo := newMemRepo()
	e, clock := newTestEngine(t, repo)
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	start := clock.Now()

	require.NoError(t, e.LoseHeart(interests.Math))
	require.NoError(t, e.AddCredits(10))
	e.Tick(start.Add(30 * time.Second))
	require.NoError(t, e.AddCredits(10))
	require.NoError(t, e.Close())

	doc := repo.doc("kid-1")
	assert.Equal(t, 20, doc.Credits)
	assert.Equal(t, 3, doc.Progress["math"].Hearts)
	assert.Nil(t, doc.Progress["math"].LastHeartLost)
}

func TestBackgroundTickerAndWriter(t *testing.T) {
	repo := newMemRepo()
	clock := newFakeClock()
	e := NewEngine("kid-1", repo, interests.DefaultCatalog(),
		WithClock(clock.Now), WithTickInterval(5*time.Millisecond))
	require.NoError(t, e.Hydrate(context.Background()))

	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math, interests.Science}))
	require.NoError(t, e.LoseHeart(interests.Math))
	clock.Advance(RegenInterval)

	assert.Eventually(t, func() bool {
		rec, _ := e.Snapshot().Record(interests.Math)
		return rec.Hearts == MaxHearts
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return repo.doc("kid-1").Progress["math"].Hearts == MaxHearts
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, e.Close())
	assert.False(t, e.Ready())
	assert.Empty(t, e.Snapshot().Interests, "close resets memory")
	assert.ErrorIs(t, e.Hydrate(context.Background()), ErrClosed)
	require.NoError(t, e.Close())
}

func TestEngineClose_RejectsMutations(t *testing.T) {
	repo := newMemRepo()
	e, _ := newTestEngine(t, repo)
	require.NoError(t, e.SelectInterests([]interests.Key{interests.Math}))
	require.NoError(t, e.AddCredits(5))
	require.NoError(t, e.Close())
	writes := repo.writeCount()

	assert.ErrorIs(t, e.SelectInterests([]interests.Key{interests.Science}), ErrClosed)
	assert.ErrorIs(t, e.AddInterest(interests.Science), ErrClosed)
	assert.ErrorIs(t, e.AddCredits(10), ErrClosed)
	assert.ErrorIs(t, e.CompleteStage(interests.Math, 1), ErrClosed)
	assert.ErrorIs(t, e.LoseHeart(interests.Math), ErrClosed)
	assert.ErrorIs(t, e.ResetHearts(interests.Math), ErrClosed)
	assert.ErrorIs(t, e.ResetGame(), ErrClosed)
	_, err := e.RecordAnswer(interests.Math, 1, true)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, e.Tick(time.Now()))

	assert.Equal(t, writes, repo.writeCount())
	assert.Equal(t, 5, repo.doc("kid-1").Credits)
}
