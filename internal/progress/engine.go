package progress

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/metrics"
	"github.com/abhisek/learnquest/internal/store"
)

const (
	// DefaultTickInterval is how often hearts are regenerated while hydrated.
	DefaultTickInterval = time.Second

	writeTimeout = 10 * time.Second
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the telemetry sink.
func WithObserver(o metrics.Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithTickInterval sets the heart regeneration tick. A non-positive interval
// disables the background ticker; Tick can still be called directly.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tickInterval = d }
}

// WithPolicy sets the interest selection policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// Engine owns the game state of one identity. Mutations apply to memory
// synchronously and are persisted in the background as merge-writes, in the
// order they were made. A failed write is logged and not retried; the next
// write carrying the same fields reconciles the store.
type Engine struct {
	identity     string
	repo         store.GameStateRepo
	catalog      interests.Catalog
	policy       Policy
	logger       *zap.Logger
	observer     metrics.Observer
	now          func() time.Time
	tickInterval time.Duration

	hydrateMu sync.Mutex

	mu      sync.Mutex
	state   GameState
	ready   bool
	closed  bool
	started bool
	pending store.Patch

	// writeMu serializes taking the pending patch and writing it.
	writeMu sync.Mutex
	wake    chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewEngine creates an engine for identity. It holds fresh state and rejects
// mutations until Hydrate is called.
func NewEngine(identity string, repo store.GameStateRepo, catalog interests.Catalog, opts ...Option) *Engine {
	e := &Engine{
		identity:     identity,
		repo:         repo,
		catalog:      catalog,
		policy:       DefaultPolicy(),
		logger:       zap.NewNop(),
		observer:     metrics.Nop{},
		now:          time.Now,
		tickInterval: DefaultTickInterval,
		state:        newGameState(),
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("identity", identity))
	return e
}

// Identity returns the learner this engine serves.
func (e *Engine) Identity() string { return e.identity }

// Catalog returns the stage catalog used to judge completion.
func (e *Engine) Catalog() interests.Catalog { return e.catalog }

// Policy returns the selection rules the engine enforces.
func (e *Engine) Policy() Policy { return e.policy }

// Now returns the engine clock.
func (e *Engine) Now() time.Time { return e.now() }

// Hydrate loads the stored document. A missing document initializes fresh
// state and persists it. A read failure is logged and falls back to fresh
// state without writing it. Hydrating twice is a no-op.
func (e *Engine) Hydrate(ctx context.Context) error {
	e.hydrateMu.Lock()
	defer e.hydrateMu.Unlock()

	e.mu.Lock()
	ready, closed := e.ready, e.closed
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if ready {
		return nil
	}

	start := time.Now()
	doc, err := e.repo.Read(ctx, e.identity)
	e.observer.RecordPersist("read", time.Since(start), err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	switch {
	case err != nil:
		e.logger.Warn("read game state failed, starting fresh", zap.Error(err))
		e.state = newGameState()
	case doc == nil:
		e.state = newGameState()
		e.enqueue(e.state.fullPatch())
	default:
		e.state = fromDocument(doc, e.now())
	}
	e.ready = true
	e.startLocked()
	return nil
}

// Ready reports whether hydration has finished.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// checkLive rejects mutations on an engine that is torn down or not yet
// hydrated. Caller must hold e.mu.
func (e *Engine) checkLive() error {
	if e.closed {
		return ErrClosed
	}
	if !e.ready {
		return ErrNotReady
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := e.state.clone()
	return Snapshot{
		Identity:             e.identity,
		Ready:                e.ready,
		Credits:              g.Credits,
		Interests:            g.Interests,
		Progress:             g.Progress,
		AllInterestsComplete: g.allComplete(e.catalog),
	}
}

// SelectInterests replaces the selection. Records of newly chosen interests
// start fresh; existing records, including those of deselected interests,
// are kept.
func (e *Engine) SelectInterests(keys []interests.Key) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return err
	}
	if err := e.policy.validateSelection(keys); err != nil {
		return err
	}

	for _, k := range keys {
		if _, ok := e.state.Progress[k]; !ok {
			e.state.Progress[k] = NewRecord()
		}
	}
	e.state.Interests = append([]interests.Key{}, keys...)

	e.enqueue(store.Patch{
		Interests: interests.Strings(e.state.Interests),
		Progress:  e.state.progressEntries(),
	})
	return nil
}

// AddInterest appends one interest once every selected interest is complete.
func (e *Engine) AddInterest(key interests.Key) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return err
	}
	if !key.Valid() {
		return fmt.Errorf("%w: unknown interest %q", ErrInvalidSelection, key)
	}
	if e.state.hasInterest(key) {
		return ErrDuplicateInterest
	}
	if !e.state.allComplete(e.catalog) {
		return ErrNotAllComplete
	}

	e.state.Interests = append(e.state.Interests, key)
	if _, ok := e.state.Progress[key]; !ok {
		e.state.Progress[key] = NewRecord()
	}

	e.enqueue(store.Patch{
		Interests: interests.Strings(e.state.Interests),
		Progress:  e.state.progressEntries(),
	})
	return nil
}

// AddCredits increases the credit balance by n.
func (e *Engine) AddCredits(n int) error {
	if n <= 0 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return err
	}
	e.state.Credits += n
	e.observer.RecordCredits(n)
	e.enqueue(e.state.creditsPatch())
	return nil
}

// CompleteStage unlocks the stage after stageID. Interests without a record
// are ignored.
func (e *Engine) CompleteStage(key interests.Key, stageID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return err
	}
	rec, ok := e.state.Progress[key]
	if !ok {
		return nil
	}
	rec, changed := completeStage(rec, stageID)
	if !changed {
		return nil
	}
	e.state.Progress[key] = rec
	e.observer.RecordStageCompleted(string(key))
	e.enqueue(store.Patch{Progress: e.state.progressEntries()})
	return nil
}

// LoseHeart removes one heart from key. Interests without a record are ignored.
func (e *Engine) LoseHeart(key interests.Key) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return err
	}
	rec, ok := e.state.Progress[key]
	if !ok {
		return nil
	}
	e.state.Progress[key] = loseHeart(rec, e.now())
	e.observer.RecordHeartLost(string(key))
	e.enqueue(store.Patch{Progress: e.state.progressEntries()})
	return nil
}

// ResetHearts refills the hearts of key. Interests without a record are ignored.
func (e *Engine) ResetHearts(key interests.Key) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return err
	}
	rec, ok := e.state.Progress[key]
	if !ok {
		return nil
	}
	e.state.Progress[key] = resetHearts(rec)
	e.enqueue(store.Patch{Progress: e.state.progressEntries()})
	return nil
}

// ResetGame zeroes credits and restarts every interest track. The selection
// is kept unless the policy clears it.
func (e *Engine) ResetGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkLive(); err != nil {
		return err
	}

	e.state.Credits = 0
	patch := e.state.creditsPatch()
	if e.policy.ResetClearsInterests {
		e.state.Interests = []interests.Key{}
		e.state.Progress = map[interests.Key]Record{}
		patch.Interests = []string{}
	} else {
		for k := range e.state.Progress {
			e.state.Progress[k] = NewRecord()
		}
	}
	patch.Progress = e.state.progressEntries()
	e.enqueue(patch)
	return nil
}

// Tick regenerates hearts on every record as of now. It persists progress
// only when some record changed and reports whether one did.
func (e *Engine) Tick(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.checkLive() != nil {
		return false
	}

	changed := false
	for k, rec := range e.state.Progress {
		updated, gained := Regenerate(rec, now)
		if gained == 0 {
			continue
		}
		e.state.Progress[k] = updated
		e.observer.RecordHeartsRegenerated(string(k), gained)
		changed = true
	}
	if changed {
		e.enqueue(store.Patch{Progress: e.state.progressEntries()})
	}
	return changed
}

// Flush writes any pending changes and waits for the write to finish.
func (e *Engine) Flush(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	e.mu.Lock()
	patch := e.pending
	e.pending = store.Patch{}
	e.mu.Unlock()

	if patch.IsEmpty() {
		return nil
	}

	start := time.Now()
	err := e.repo.MergeWrite(ctx, e.identity, patch)
	e.observer.RecordPersist("write", time.Since(start), err)
	if err != nil {
		e.logger.Error("persist game state failed", zap.Error(err))
		return fmt.Errorf("persist game state: %w", err)
	}
	return nil
}

// Close stops the background ticker and writer, flushes pending changes and
// resets memory to fresh, unhydrated state. The engine cannot be hydrated
// again.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	started := e.started
	e.mu.Unlock()

	if started {
		close(e.stop)
		e.wg.Wait()
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	err := e.Flush(ctx)

	e.mu.Lock()
	e.state = newGameState()
	e.ready = false
	e.mu.Unlock()
	return err
}

// enqueue merges patch into the pending write and wakes the writer.
// Caller must hold e.mu.
func (e *Engine) enqueue(patch store.Patch) {
	e.pending = e.pending.Merge(patch)
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// startLocked launches the writer and ticker goroutines. Caller must hold e.mu.
func (e *Engine) startLocked() {
	if e.started {
		return
	}
	e.started = true

	e.wg.Add(1)
	go e.writeLoop()

	if e.tickInterval > 0 {
		e.wg.Add(1)
		go e.tickLoop(e.tickInterval)
	}
}

func (e *Engine) writeLoop() {
	defer e.wg.Done()
	for {
		select {
		case <-e.stop:
			return
		case <-e.wake:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			_ = e.Flush(ctx)
			cancel()
		}
	}
}

func (e *Engine) tickLoop(interval time.Duration) {
	defer e.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.Tick(e.now())
		}
	}
}
