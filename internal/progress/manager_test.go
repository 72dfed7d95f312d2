package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/store"
)

func newTestManager(t *testing.T, repo *memRepo, size int) *Manager {
	t.Helper()
	m, err := NewManager(repo, interests.DefaultCatalog(), size, nil, nil, WithTickInterval(0))
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestManagerOpen_DedupesHydration(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(t, repo, 8)

	var wg sync.WaitGroup
	engines := make([]*Engine, 16)
	for i := range engines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := m.Open(context.Background(), "kid-1")
			assert.NoError(t, err)
			engines[i] = e
		}(i)
	}
	wg.Wait()

	for _, e := range engines {
		assert.Same(t, engines[0], e)
	}
	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, 1, m.Len())
}

func TestManagerOpen_EmptyIdentity(t *testing.T) {
	m := newTestManager(t, newMemRepo(), 8)
	_, err := m.Open(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrEmptyIdentity)
}

func TestManagerLogout_FlushesAndForgets(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(t, repo, 8)

	e, err := m.Open(context.Background(), "kid-1")
	require.NoError(t, err)
	require.NoError(t, e.AddCredits(30))

	assert.True(t, m.Logout("kid-1"))
	assert.False(t, e.Ready())
	assert.Equal(t, 30, repo.doc("kid-1").Credits)
	_, ok := m.Get("kid-1")
	assert.False(t, ok)
	assert.False(t, m.Logout("kid-1"))

	e2, err := m.Open(context.Background(), "kid-1")
	require.NoError(t, err)
	assert.NotSame(t, e, e2)
	assert.Equal(t, 30, e2.Snapshot().Credits)
}

func TestManagerEviction_ClosesEngine(t *testing.T) {
	repo := newMemRepo()
	m := newTestManager(t, repo, 1)

	first, err := m.Open(context.Background(), "kid-1")
	require.NoError(t, err)
	require.NoError(t, first.AddCredits(10))

	_, err = m.Open(context.Background(), "kid-2")
	require.NoError(t, err)

	assert.False(t, first.Ready())
	assert.Equal(t, 10, repo.doc("kid-1").Credits)
	assert.Equal(t, 1, m.Len())
}

// logoutWhileWriting opens kid-1 on repo, earns 30 credits while the first
// write is held, and starts a Logout. It returns once the engine has left
// the cache but before its final flush has run.
func logoutWhileWriting(t *testing.T, m *Manager, repo *gatedRepo) (*Engine, <-chan bool, func()) {
	t.Helper()
	old, err := m.Open(context.Background(), "kid-1")
	require.NoError(t, err)

	entered, release := repo.hold()
	require.NoError(t, old.AddCredits(10))
	<-entered
	require.NoError(t, old.AddCredits(10))
	require.NoError(t, old.AddCredits(10))

	loggedOut := make(chan bool, 1)
	go func() { loggedOut <- m.Logout("kid-1") }()
	require.Eventually(t, func() bool {
		_, ok := m.Get("kid-1")
		return !ok
	}, time.Second, time.Millisecond)
	return old, loggedOut, release
}

func TestManagerOpen_WaitsForLogoutFlush(t *testing.T) {
	repo := newGatedRepo()
	m, err := NewManager(repo, interests.DefaultCatalog(), 8, nil, nil, WithTickInterval(0))
	require.NoError(t, err)
	t.Cleanup(m.Close)

	old, loggedOut, release := logoutWhileWriting(t, m, repo)

	opened := make(chan *Engine, 1)
	go func() {
		e, err := m.Open(context.Background(), "kid-1")
		assert.NoError(t, err)
		opened <- e
	}()
	select {
	case <-opened:
		t.Fatal("open returned before the closing engine flushed")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	assert.True(t, <-loggedOut)
	assert.ErrorIs(t, old.AddCredits(10), ErrClosed)
	fresh := <-opened
	require.NotNil(t, fresh)
	assert.NotSame(t, old, fresh)
	assert.Equal(t, 30, fresh.Snapshot().Credits)

	require.NoError(t, fresh.AddCredits(10))
	m.Close()
	assert.Equal(t, 40, repo.doc("kid-1").Credits)
}

func TestManagerOpen_CancelledWhileClosing(t *testing.T) {
	repo := newGatedRepo()
	m, err := NewManager(repo, interests.DefaultCatalog(), 8, nil, nil, WithTickInterval(0))
	require.NoError(t, err)
	t.Cleanup(m.Close)

	_, loggedOut, release := logoutWhileWriting(t, m, repo)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Open(ctx, "kid-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	assert.True(t, <-loggedOut)
	assert.Equal(t, 30, repo.doc("kid-1").Credits)
	assert.Equal(t, 0, m.Len())
}
