package stage

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// StageScreen asks the check question of one stage.
type StageScreen struct {
	engine *progress.Engine
	key    interests.Key
	stage  interests.Stage
	choice components.MultiChoice

	outcome *progress.Outcome
	goodie  *rewards.Goodie
	errMsg  string
}

var _ screen.Screen = (*StageScreen)(nil)
var _ screen.KeyHintProvider = (*StageScreen)(nil)

// New creates a StageScreen for st of the key track.
func New(engine *progress.Engine, key interests.Key, st interests.Stage) *StageScreen {
	return &StageScreen{
		engine: engine,
		key:    key,
		stage:  st,
		choice: components.NewMultiChoice(st.Question, st.Options, st.CorrectIndex),
	}
}

func (s *StageScreen) Init() tea.Cmd {
	return nil
}

func (s *StageScreen) Title() string {
	return fmt.Sprintf("Stage %d", s.stage.ID)
}

func (s *StageScreen) KeyHints() []layout.KeyHint {
	if s.answered() {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
		if s.canRetry() {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Try again"})
		}
		return hints
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StageScreen) answered() bool {
	return s.outcome != nil || s.errMsg != ""
}

func (s *StageScreen) canRetry() bool {
	return s.outcome != nil && !s.outcome.Correct && s.outcome.Record.Hearts > 0
}

// Outcome returns the recorded result, if the question was answered.
func (s *StageScreen) Outcome() (progress.Outcome, bool) {
	if s.outcome == nil {
		return progress.Outcome{}, false
	}
	return *s.outcome, true
}

func (s *StageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.answered() {
		kmsg, ok := msg.(tea.KeyPressMsg)
		if !ok {
			return s, nil
		}
		switch kmsg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			if s.canRetry() {
				s.outcome = nil
				s.goodie = nil
				s.choice = s.choice.Reset()
			}
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if s.choice.Submitted {
		s.record()
	}
	return s, cmd
}

func (s *StageScreen) record() {
	out, err := s.engine.RecordAnswer(s.key, s.stage.ID, s.stage.IsCorrect(s.choice.ChosenIndex))
	if err != nil {
		s.errMsg = describe(err)
		return
	}
	s.outcome = &out
	if g, ok := rewards.Crossed(out.CreditsBefore, out.CreditsAfter); ok {
		s.goodie = &g
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, progress.ErrNoHearts):
		return "You are out of hearts! Wait for one to come back or restart the track."
	case errors.Is(err, progress.ErrStageLocked):
		return "This stage is still locked. Finish the one before it first."
	default:
		return err.Error()
	}
}

func (s *StageScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	title := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(strings.ToUpper(s.stage.Title))
	sections = append(sections, title)
	if s.stage.VideoURL != "" {
		sections = append(sections, theme.Hint.Render("watch: "+s.stage.VideoURL))
	}
	sections = append(sections, lipgloss.NewStyle().Align(lipgloss.Left).
		Render(strings.TrimRight(s.choice.View(), "\n")))

	switch {
	case s.errMsg != "":
		sections = append(sections, theme.ErrorText.Render(s.errMsg))
	case s.outcome != nil:
		sections = append(sections, s.feedback(width))
	}

	body := strings.Join(sections, "\n\n")
	return components.CabinetFrame(components.ArcadeCard(body, cw), width, height)
}

func (s *StageScreen) feedback(width int) string {
	out := s.outcome
	if out.Correct {
		lines := []string{
			theme.Correct.Render(fmt.Sprintf("Correct! +%d credits", out.Earned())),
			lipgloss.NewStyle().Foreground(theme.Credit).Render(fmt.Sprintf("★ %d credits", out.CreditsAfter)),
		}
		if s.goodie != nil {
			lines = append(lines, theme.Banner.Render(fmt.Sprintf("%s You unlocked the %s!", s.goodie.Icon, s.goodie.Name)))
		}
		return strings.Join(lines, "\n")
	}

	lines := []string{
		theme.Incorrect.Render("Not quite! You lost a heart."),
		components.Hearts(out.Record.Hearts),
	}
	if out.Record.Hearts <= 0 {
		lines = append(lines, components.GameOver(components.HeartCountdown(out.Record, s.engine.Now())))
	}
	return strings.Join(lines, "\n")
}
