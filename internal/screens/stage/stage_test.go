package stage

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/progress/progresstest"
	"github.com/abhisek/learnquest/internal/router"
)

var (
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	retry = tea.KeyPressMsg{Code: 'r', Text: "r"}
)

func newStage(t *testing.T, stageID int) (*StageScreen, *progress.Engine) {
	t.Helper()
	env := progresstest.WithInterests(t, "ada", []interests.Key{interests.Sports, interests.Science})
	st, ok := env.Engine.Catalog().Stage(interests.Sports, stageID)
	require.True(t, ok)
	return New(env.Engine, interests.Sports, st), env.Engine
}

// answer moves the cursor to choice and submits it.
func answer(s *StageScreen, choice int) {
	for i := 0; i < choice; i++ {
		s.Update(down)
	}
	s.Update(enter)
}

func TestCorrectAnswerAwardsCredits(t *testing.T) {
	s, e := newStage(t, 1)
	answer(s, s.stage.CorrectIndex)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.True(t, out.Correct)
	assert.Equal(t, progress.StageReward, out.Earned())
	assert.Equal(t, 2, out.Record.UnlockedStage)
	assert.Equal(t, progress.StageReward, e.Snapshot().Credits)
	assert.Contains(t, s.View(100, 40), "Correct!")

	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	_, isPop := cmd().(router.PopScreenMsg)
	assert.True(t, isPop)
}

func TestWrongAnswerCostsHeartAndAllowsRetry(t *testing.T) {
	s, e := newStage(t, 1)
	wrong := (s.stage.CorrectIndex + 1) % len(s.stage.Options)
	answer(s, wrong)

	out, ok := s.Outcome()
	require.True(t, ok)
	assert.False(t, out.Correct)
	assert.Equal(t, progress.MaxHearts-1, out.Record.Hearts)
	assert.True(t, s.canRetry())

	s.Update(retry)
	_, ok = s.Outcome()
	assert.False(t, ok, "retry should clear the outcome")
	assert.False(t, s.choice.Submitted)

	answer(s, s.stage.CorrectIndex)
	out, _ = s.Outcome()
	assert.True(t, out.Correct)
	r, _ := e.Snapshot().Record(interests.Sports)
	assert.Equal(t, progress.MaxHearts-1, r.Hearts, "a correct answer does not restore hearts")
}

func TestLastHeartShowsGameOver(t *testing.T) {
	s, e := newStage(t, 1)
	require.NoError(t, e.LoseHeart(interests.Sports))
	require.NoError(t, e.LoseHeart(interests.Sports))

	wrong := (s.stage.CorrectIndex + 1) % len(s.stage.Options)
	answer(s, wrong)

	out, _ := s.Outcome()
	assert.Equal(t, 0, out.Record.Hearts)
	assert.False(t, s.canRetry())
	assert.Contains(t, s.View(100, 40), "GAME OVER")
}

func TestNoHeartsRejectsAnswer(t *testing.T) {
	s, e := newStage(t, 1)
	for i := 0; i < progress.MaxHearts; i++ {
		require.NoError(t, e.LoseHeart(interests.Sports))
	}

	answer(s, s.stage.CorrectIndex)
	_, ok := s.Outcome()
	assert.False(t, ok)
	assert.Contains(t, s.errMsg, "out of hearts")
	assert.Equal(t, 0, e.Snapshot().Credits)
}

func TestLockedStageRejectsAnswer(t *testing.T) {
	s, _ := newStage(t, 3)
	answer(s, s.stage.CorrectIndex)
	assert.Contains(t, s.errMsg, "locked")
}

func TestCrossingBadgeIsCelebrated(t *testing.T) {
	s, e := newStage(t, 1)
	require.NoError(t, e.AddCredits(45))

	answer(s, s.stage.CorrectIndex)
	require.NotNil(t, s.goodie)
	assert.Equal(t, "Bronze Badge", s.goodie.Name)
}
