package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/ui/layout"
)

// Screen is one page of the TUI. The router keeps screens on a stack and
// only the top one receives messages.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the area between the header and the footer.
	View(width, height int) string

	// Title names the screen in the header breadcrumb. It may be empty.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ResumedMsg is delivered to a screen when the one above it is popped.
type ResumedMsg struct{}

// LoggedInMsg is emitted once a learner's engine is hydrated.
type LoggedInMsg struct {
	Engine *progress.Engine
}

// LogoutMsg asks the app to tear down the current learner's engine.
type LogoutMsg struct{}
