package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// SuggestionMsg carries the interests suggested by the quiz. It is delivered
// to the screen below the quiz after it pops.
type SuggestionMsg struct {
	Keys []interests.Key
}

// QuizScreen walks the learner through the interest-discovery quiz.
type QuizScreen struct {
	questions   []interests.QuizQuestion
	categorizer interests.Categorizer
	current     int
	choice      components.MultiChoice
	answers     []interests.Answer
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen over questions.
func New(questions []interests.QuizQuestion, categorizer interests.Categorizer) *QuizScreen {
	s := &QuizScreen{
		questions:   questions,
		categorizer: categorizer,
	}
	s.loadQuestion()
	return s
}

func (s *QuizScreen) loadQuestion() {
	if s.current >= len(s.questions) {
		return
	}
	q := s.questions[s.current]
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
	}
	s.choice = components.NewMultiChoice(q.Question, opts, components.NoCorrectAnswer)
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Interest Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.current >= len(s.questions) {
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, cmd
	}

	s.answers = append(s.answers, interests.Answer{
		QuestionID: s.questions[s.current].ID,
		Option:     s.choice.ChosenIndex,
	})
	s.current++
	if s.current < len(s.questions) {
		s.loadQuestion()
		return s, nil
	}
	return s, s.finish()
}

func (s *QuizScreen) finish() tea.Cmd {
	keys, err := s.categorizer.Categorize(s.answers)
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return SuggestionMsg{Keys: keys} },
	)
}

// Answers returns the answers given so far.
func (s *QuizScreen) Answers() []interests.Answer {
	return s.answers
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case s.errMsg != "":
		body = theme.ErrorText.Render(s.errMsg)
	case s.current >= len(s.questions):
		body = theme.Hint.Render("Finding your interests...")
	default:
		counter := lipgloss.NewStyle().
			Foreground(theme.ArcadeCyan).
			Bold(true).
			Render(fmt.Sprintf("QUESTION %d / %d", s.current+1, len(s.questions)))
		body = counter + "\n\n" + lipgloss.NewStyle().
			Width(cw-6).
			Align(lipgloss.Left).
			Render(strings.TrimRight(s.choice.View(), "\n"))
	}

	return components.CabinetFrame(components.ArcadeCard(body, cw), width, height)
}
