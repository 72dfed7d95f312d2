package track

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/progress/progresstest"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/stage"
)

var (
	down    = tea.KeyPressMsg{Code: tea.KeyDown}
	enter   = tea.KeyPressMsg{Code: tea.KeyEnter}
	restart = tea.KeyPressMsg{Code: 'r', Text: "r"}
)

func newTrack(t *testing.T) (*TrackScreen, *progress.Engine) {
	t.Helper()
	env := progresstest.WithInterests(t, "ada", []interests.Key{interests.Math, interests.English})
	return New(env.Engine, interests.Math), env.Engine
}

func TestCursorStartsOnNextStage(t *testing.T) {
	env := progresstest.WithInterests(t, "ada", []interests.Key{interests.Math, interests.English})
	require.NoError(t, env.Engine.CompleteStage(interests.Math, 1))

	tr := New(env.Engine, interests.Math)
	assert.Equal(t, 1, tr.cursor)
}

func TestEnterPlayableStagePushesStage(t *testing.T) {
	tr, _ := newTrack(t)
	_, cmd := tr.Update(enter)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, isStage := push.Screen.(*stage.StageScreen)
	assert.True(t, isStage)
}

func TestLockedStageCannotBeOpened(t *testing.T) {
	tr, _ := newTrack(t)
	tr.Update(down)
	_, cmd := tr.Update(enter)
	assert.Nil(t, cmd)
	assert.Contains(t, tr.errMsg, "unlock")
}

func TestCompletedStageCanBeReplayed(t *testing.T) {
	tr, e := newTrack(t)
	require.NoError(t, e.CompleteStage(interests.Math, 1))

	tr.cursor = 0
	_, cmd := tr.Update(enter)
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PushScreenMsg)
	assert.True(t, ok)
}

func TestGameOverAndRestart(t *testing.T) {
	tr, e := newTrack(t)
	for i := 0; i < progress.MaxHearts; i++ {
		require.NoError(t, e.LoseHeart(interests.Math))
	}

	_, cmd := tr.Update(enter)
	assert.Nil(t, cmd)
	assert.Contains(t, tr.View(100, 40), "GAME OVER")

	tr.Update(restart)
	r, _ := e.Snapshot().Record(interests.Math)
	assert.Equal(t, progress.MaxHearts, r.Hearts)
	assert.Nil(t, r.LastHeartLostAt)
}

func TestRestartIgnoredWithHeartsLeft(t *testing.T) {
	tr, e := newTrack(t)
	require.NoError(t, e.LoseHeart(interests.Math))

	tr.Update(restart)
	r, _ := e.Snapshot().Record(interests.Math)
	assert.Equal(t, progress.MaxHearts-1, r.Hearts)
}

func TestViewListsStages(t *testing.T) {
	tr, e := newTrack(t)
	view := tr.View(100, 40)
	for _, st := range e.Catalog().Stages(interests.Math) {
		assert.Contains(t, view, st.Title)
	}
}

func TestResumeMovesCursorToNextStage(t *testing.T) {
	tr, e := newTrack(t)
	tr.Update(down)
	tr.Update(enter)
	require.NotEmpty(t, tr.errMsg)

	require.NoError(t, e.CompleteStage(interests.Math, 1))
	tr.Update(screen.ResumedMsg{})

	assert.Equal(t, 1, tr.cursor)
	assert.Empty(t, tr.errMsg)
}
