package selection

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/progress/progresstest"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/quiz"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "dashboard" }
func (s *stubScreen) Title() string                           { return "Dashboard" }

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

var (
	down  = key(tea.KeyDown)
	space = key(tea.KeySpace)
	enter = key(tea.KeyEnter)
)

func newInitial(t *testing.T) (*SelectionScreen, *progress.Engine) {
	t.Helper()
	env := progresstest.New(t, "ada")
	s := New(env.Engine, ModeInitial, interests.NewTallyCategorizer(), func() screen.Screen { return &stubScreen{} })
	return s, env.Engine
}

func TestInitialSelectionSavesAndResets(t *testing.T) {
	s, e := newInitial(t)

	s.Update(space) // sports
	s.Update(down)
	s.Update(space) // science
	assert.Equal(t, []interests.Key{interests.Sports, interests.Science}, s.Selected())

	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	reset, ok := cmd().(router.ResetScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Dashboard", reset.Screen.Title())

	snap := e.Snapshot()
	assert.Equal(t, []interests.Key{interests.Sports, interests.Science}, snap.Interests)
	r, ok := snap.Record(interests.Science)
	require.True(t, ok)
	assert.Equal(t, progress.MaxHearts, r.Hearts)
}

func TestInitialSelectionTooFew(t *testing.T) {
	s, e := newInitial(t)
	s.Update(space)

	_, cmd := s.Update(enter)
	assert.Nil(t, cmd)
	assert.Contains(t, s.errMsg, "Select 2 to 3")
	assert.Empty(t, e.Snapshot().Interests)
}

func TestToggleStopsAtMax(t *testing.T) {
	s, _ := newInitial(t)
	for i := 0; i < 4; i++ {
		s.Update(space)
		s.Update(down)
	}
	assert.Len(t, s.Selected(), 3)
	assert.Contains(t, s.errMsg, "at most 3")

	// Untoggling frees a slot.
	s.cursor = 0
	s.Update(space)
	assert.Len(t, s.Selected(), 2)
	assert.Empty(t, s.errMsg)
}

func TestQuizKeyPushesQuiz(t *testing.T) {
	s, _ := newInitial(t)
	_, cmd := s.Update(key('q'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, isQuiz := push.Screen.(*quiz.QuizScreen)
	assert.True(t, isQuiz)
}

func TestSuggestionPreselects(t *testing.T) {
	s, _ := newInitial(t)
	s.Update(quiz.SuggestionMsg{Keys: []interests.Key{interests.Math, interests.English, interests.Sports, interests.Social}})

	// Capped at MaxSelect, shown in display order.
	assert.Equal(t, []interests.Key{interests.Sports, interests.English, interests.Math}, s.Selected())
}

func TestAddModeRequiresCompletion(t *testing.T) {
	env := progresstest.WithInterests(t, "ada", []interests.Key{interests.Sports, interests.Science})
	s := New(env.Engine, ModeAdd, nil, nil)

	for _, k := range s.options {
		assert.NotEqual(t, interests.Sports, k)
		assert.NotEqual(t, interests.Science, k)
	}

	_, cmd := s.Update(enter)
	assert.Nil(t, cmd)
	assert.NotEmpty(t, s.errMsg)
	assert.Len(t, env.Engine.Snapshot().Interests, 2)
}

func TestAddModeAddsAndPops(t *testing.T) {
	env := progresstest.WithInterests(t, "ada", []interests.Key{interests.Sports, interests.Science})
	e := env.Engine
	for _, k := range []interests.Key{interests.Sports, interests.Science} {
		require.NoError(t, e.CompleteStage(k, e.Catalog().TotalStages(k)))
	}

	s := New(e, ModeAdd, nil, nil)
	require.Equal(t, interests.English, s.options[0])

	_, cmd := s.Update(enter)
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Equal(t, []interests.Key{interests.Sports, interests.Science, interests.English}, e.Snapshot().Interests)
}

func TestViewListsInterests(t *testing.T) {
	s, _ := newInitial(t)
	view := s.View(100, 30)
	for _, k := range interests.All() {
		assert.True(t, strings.Contains(view, k.DisplayName()), "missing %s", k)
	}
}
