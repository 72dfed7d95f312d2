package selection

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/quiz"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// Mode selects between the first pick and adding one more interest.
type Mode int

const (
	// ModeInitial picks the starting set of interests.
	ModeInitial Mode = iota
	// ModeAdd adds a single interest once every chosen track is complete.
	ModeAdd
)

// SelectionScreen lets the learner choose interests.
type SelectionScreen struct {
	engine      *progress.Engine
	mode        Mode
	onDone      func() screen.Screen
	categorizer interests.Categorizer

	options  []interests.Key
	cursor   int
	selected map[interests.Key]bool
	errMsg   string
}

var _ screen.Screen = (*SelectionScreen)(nil)
var _ screen.KeyHintProvider = (*SelectionScreen)(nil)

// New creates a SelectionScreen. In ModeInitial a successful save replaces
// the whole stack with onDone(); in ModeAdd the screen pops back.
func New(engine *progress.Engine, mode Mode, categorizer interests.Categorizer, onDone func() screen.Screen) *SelectionScreen {
	s := &SelectionScreen{
		engine:      engine,
		mode:        mode,
		onDone:      onDone,
		categorizer: categorizer,
		selected:    make(map[interests.Key]bool),
	}

	snap := engine.Snapshot()
	have := make(map[interests.Key]bool, len(snap.Interests))
	for _, k := range snap.Interests {
		have[k] = true
	}
	for _, k := range interests.All() {
		if mode == ModeAdd && have[k] {
			continue
		}
		s.options = append(s.options, k)
	}
	return s
}

func (s *SelectionScreen) Init() tea.Cmd {
	return nil
}

func (s *SelectionScreen) Title() string {
	if s.mode == ModeAdd {
		return "Add Interest"
	}
	return "Choose Interests"
}

func (s *SelectionScreen) KeyHints() []layout.KeyHint {
	if s.mode == ModeAdd {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Add"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Start"},
	}
	if s.categorizer != nil {
		hints = append(hints, layout.KeyHint{Key: "Q", Description: "Take quiz"})
	}
	return hints
}

// Selected returns the chosen interests in display order.
func (s *SelectionScreen) Selected() []interests.Key {
	var out []interests.Key
	for _, k := range s.options {
		if s.selected[k] {
			out = append(out, k)
		}
	}
	return out
}

func (s *SelectionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quiz.SuggestionMsg:
		s.applySuggestion(msg.Keys)
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.options)-1 {
				s.cursor++
			}
		case "space":
			if s.mode == ModeInitial {
				s.toggle()
			}
		case "q":
			if s.mode == ModeInitial && s.categorizer != nil {
				q := quiz.New(interests.DefaultQuiz(), s.categorizer)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: q} }
			}
		case "enter":
			return s, s.submit()
		}
	}
	return s, nil
}

func (s *SelectionScreen) toggle() {
	if len(s.options) == 0 {
		return
	}
	k := s.options[s.cursor]
	if s.selected[k] {
		delete(s.selected, k)
		s.errMsg = ""
		return
	}
	if limit := s.engine.Policy().MaxSelect; len(s.selected) >= limit {
		s.errMsg = fmt.Sprintf("You can pick at most %d interests.", limit)
		return
	}
	s.selected[k] = true
	s.errMsg = ""
}

func (s *SelectionScreen) applySuggestion(keys []interests.Key) {
	s.selected = make(map[interests.Key]bool)
	limit := s.engine.Policy().MaxSelect
	for _, k := range keys {
		if len(s.selected) >= limit {
			break
		}
		s.selected[k] = true
	}
	s.errMsg = ""
}

func (s *SelectionScreen) submit() tea.Cmd {
	if s.mode == ModeAdd {
		if len(s.options) == 0 {
			return nil
		}
		if err := s.engine.AddInterest(s.options[s.cursor]); err != nil {
			s.errMsg = describe(err)
			return nil
		}
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	if err := s.engine.SelectInterests(s.Selected()); err != nil {
		s.errMsg = describe(err)
		return nil
	}
	next := s.onDone()
	return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
}

func describe(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return err.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (s *SelectionScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	policy := s.engine.Policy()

	var heading string
	if s.mode == ModeAdd {
		heading = "Pick one more interest to explore!"
	} else {
		heading = fmt.Sprintf("Pick %d to %d things you love", policy.MinSelect, policy.MaxSelect)
	}

	var lines []string
	for i, k := range s.options {
		mark := "[ ]"
		if s.mode == ModeAdd {
			mark = "   "
		} else if s.selected[k] {
			mark = "[✓]"
		}
		label := fmt.Sprintf("%s %s  %s", mark, k.Icon(), k.DisplayName())
		switch {
		case i == s.cursor:
			lines = append(lines, theme.Selected.Render("▸ "+label))
		case s.selected[k]:
			lines = append(lines, theme.Completed.Render("  "+label))
		default:
			lines = append(lines, theme.Unselected.Render("  "+label))
		}
	}
	if len(s.options) == 0 {
		lines = append(lines, theme.Hint.Render("You are already exploring every interest!"))
	}

	body := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(heading) +
		"\n\n" +
		lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n"))

	if s.mode == ModeInitial {
		body += "\n\n" + theme.Hint.Render(fmt.Sprintf("%d selected", len(s.selected)))
	}
	if s.errMsg != "" {
		body += "\n\n" + theme.ErrorText.Render(s.errMsg)
	}

	return components.CabinetFrame(components.ArcadeCard(body, cw), width, height)
}
