package goodies

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/progress/progresstest"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/store"
)

var (
	tab   = tea.KeyPressMsg{Code: tea.KeyTab}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
)

func newGoodies(t *testing.T, credits int) *GoodiesScreen {
	t.Helper()
	env := progresstest.New(t, "ada")
	if credits > 0 {
		require.NoError(t, env.Engine.AddCredits(credits))
	}
	s := New(env.Engine, rewards.NewService(env.Store.ClaimRepo()))
	s.Update(s.Init()())
	require.True(t, s.loaded)
	return s
}

// showReal switches to the real-world tab.
func showReal(s *GoodiesScreen) {
	for rewards.AllTypes()[s.selectedType] != rewards.TypeReal {
		s.Update(tab)
	}
}

func TestLoadsEveryGoodie(t *testing.T) {
	s := newGoodies(t, 120)
	assert.Len(t, s.all, len(rewards.All()))
	assert.Equal(t, 2, s.countUnlocked(rewards.TypeBadge))
	assert.Contains(t, s.View(100, 40), "120 credits")
}

func TestClaimLockedGoodieFails(t *testing.T) {
	s := newGoodies(t, 0)
	showReal(s)

	cmd := s.claim()
	require.NotNil(t, cmd)
	msg := cmd()
	res, ok := msg.(claimedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, rewards.ErrNotUnlocked)

	s.Update(msg)
	assert.NotEmpty(t, s.errMsg)
}

func TestClaimUnlockedGoodie(t *testing.T) {
	s := newGoodies(t, 760)
	showReal(s)

	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	msg := cmd()
	res := msg.(claimedMsg)
	require.NoError(t, res.Err)
	assert.Equal(t, "Pencil Pack", res.Goodie.Name)

	_, reload := s.Update(msg)
	require.NotNil(t, reload)
	s.Update(reload())
	assert.True(t, s.filtered()[0].Claimed)
	assert.Contains(t, s.notice, "Pencil Pack")

	// A second claim is refused by the store.
	res = s.claim()().(claimedMsg)
	assert.ErrorIs(t, res.Err, store.ErrAlreadyClaimed)
}

func TestBadgesAreNotClaimable(t *testing.T) {
	s := newGoodies(t, 100)
	cmd := s.claim()
	assert.Nil(t, cmd)
	assert.Contains(t, s.errMsg, "automatically")
}
