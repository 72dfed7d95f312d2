package welcome

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

const (
	tickInterval = 150 * time.Millisecond
	openTimeout  = 10 * time.Second
	maxNameLen   = 24
)

// sparkle frames cycle around the banner
var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

type loginFailedMsg struct {
	err error
}

// OpenFunc hydrates the engine of a learner.
type OpenFunc func(ctx context.Context, identity string) (*progress.Engine, error)

// WelcomeScreen shows the banner and asks the learner for their name.
type WelcomeScreen struct {
	open      OpenFunc
	input     components.TextInput
	tickCount int
	loading   bool
	errMsg    string
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. name pre-fills the input when non-empty.
func New(open OpenFunc, name string) *WelcomeScreen {
	input := components.NewTextInput("your name", true, maxNameLen)
	if name != "" {
		input.Model.SetValue(name)
	}
	return &WelcomeScreen{
		open:  open,
		input: input,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Batch(w.input.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		w.tickCount++
		return w, tick()

	case loginFailedMsg:
		w.loading = false
		w.errMsg = msg.err.Error()
		w.input.Submit(false)
		return w, nil

	case tea.KeyPressMsg:
		if w.loading {
			return w, nil
		}
		if msg.String() == "enter" {
			return w, w.submit()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		w.errMsg = ""
	}
	return w, cmd
}

func (w *WelcomeScreen) submit() tea.Cmd {
	name := w.input.Value()
	if name == "" {
		w.errMsg = "Please type your name to start."
		w.input.Submit(false)
		return nil
	}
	w.loading = true
	w.errMsg = ""
	open := w.open
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
		defer cancel()
		e, err := open(ctx, name)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		if e == nil {
			return loginFailedMsg{err: errors.New("no game state for " + name)}
		}
		return screen.LoggedInMsg{Engine: e}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	frame := w.tickCount % len(sparkleFrames)
	sparkle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(sparkleFrames[frame])

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")
	sections = append(sections, sparkle+"  "+lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Learn what you love, one stage at a time!")+"  "+sparkle)
	sections = append(sections, "")

	prompt := lipgloss.NewStyle().Foreground(theme.TextDim).Render("What's your name?")
	sections = append(sections, prompt)
	sections = append(sections, components.ArcadeCard(w.input.View(), 36))

	switch {
	case w.loading:
		sections = append(sections, theme.Hint.Render("loading your quest..."))
	case w.errMsg != "":
		sections = append(sections, theme.ErrorText.Render(w.errMsg))
	default:
		sections = append(sections, theme.Hint.Render("press enter to start"))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
