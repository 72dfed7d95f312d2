package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/home"
	"github.com/abhisek/learnquest/internal/screens/selection"
	"github.com/abhisek/learnquest/internal/screens/welcome"
	"github.com/abhisek/learnquest/internal/ui/layout"
)

// refreshInterval redraws the frame so heart countdowns keep moving.
const refreshInterval = time.Second

// breadcrumbDepth is how many screen titles the header shows.
const breadcrumbDepth = 3

type refreshMsg time.Time

// Options holds the application dependencies.
type Options struct {
	Manager     *progress.Manager
	Rewards     *rewards.Service
	Categorizer interests.Categorizer
	// User pre-fills the name on the welcome screen.
	User   string
	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	engine *progress.Engine
	width  int
	height int
}

// newAppModel creates a new AppModel with the welcome screen.
func newAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	m := AppModel{opts: opts}
	m.router = router.New(m.welcomeScreen())
	return m
}

func (m AppModel) welcomeScreen() screen.Screen {
	return welcome.New(m.opts.Manager.Open, m.opts.User)
}

// landingScreen is where a logged-in learner starts: interest selection the
// first time, the dashboard afterwards.
func (m AppModel) landingScreen(e *progress.Engine) screen.Screen {
	deps := home.Deps{
		Engine:      e,
		Rewards:     m.opts.Rewards,
		Categorizer: m.opts.Categorizer,
	}
	dashboard := func() screen.Screen { return home.New(deps) }
	if len(e.Snapshot().Interests) == 0 {
		return selection.New(e, selection.ModeInitial, m.opts.Categorizer, dashboard)
	}
	return dashboard()
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m AppModel) Init() tea.Cmd {
	var initCmd tea.Cmd
	if active := m.router.Active(); active != nil {
		initCmd = active.Init()
	}
	return tea.Batch(initCmd, refresh())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		return m, refresh()

	case screen.LoggedInMsg:
		m.engine = msg.Engine
		m.opts.Logger.Info("learner logged in", zap.String("identity", msg.Engine.Identity()))
		return m, m.router.Reset(m.landingScreen(msg.Engine))

	case screen.LogoutMsg:
		if m.engine != nil {
			identity := m.engine.Identity()
			m.opts.Manager.Logout(identity)
			m.opts.Logger.Info("learner logged out", zap.String("identity", identity))
			m.engine = nil
		}
		return m, m.router.Reset(m.welcomeScreen())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame: header, active screen and footer.
func (m AppModel) render() string {
	chrome := layout.Chrome{
		Title: strings.Join(m.router.Breadcrumb(breadcrumbDepth), " › "),
		Hints: m.keyHints(),
	}
	if m.engine != nil {
		chrome.Learner = m.engine.Identity()
		chrome.Credits = m.engine.Snapshot().Credits
	}
	return layout.Frame(chrome, m.width, m.height, m.router.View)
}

// keyHints returns the active screen's hints, or generic navigation hints.
func (m AppModel) keyHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program. The manager is left open; the caller
// closes it to flush pending writes.
func Run(opts Options) error {
	if opts.Manager == nil {
		return fmt.Errorf("app: nil manager")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
