package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/goodies"
	"github.com/abhisek/learnquest/internal/screens/selection"
	"github.com/abhisek/learnquest/internal/screens/track"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
)

// Deps is what the dashboard and the screens it opens need.
type Deps struct {
	Engine      *progress.Engine
	Rewards     *rewards.Service
	Categorizer interests.Categorizer
}

type menuEntry struct {
	label    string
	disabled bool
	action   func() tea.Cmd
}

// HomeScreen is the learner dashboard: credits, tracks and the main menu.
type HomeScreen struct {
	deps         Deps
	selected     int
	confirmReset bool
	errMsg       string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	return &HomeScreen{deps: deps}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Dashboard"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirmReset {
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset everything"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// entries builds the menu from the current state: one entry per track, then
// add-interest (only once every track is complete), goodies, reset and logout.
func (h *HomeScreen) entries() []menuEntry {
	snap := h.deps.Engine.Snapshot()
	e := h.deps.Engine

	var out []menuEntry
	for _, k := range snap.Interests {
		k := k
		out = append(out, menuEntry{
			label: strings.ToUpper(k.DisplayName()),
			action: func() tea.Cmd {
				s := track.New(e, k)
				return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
			},
		})
	}

	canAdd := snap.AllInterestsComplete && len(snap.Interests) < len(interests.All())
	out = append(out, menuEntry{
		label:    "ADD INTEREST",
		disabled: !canAdd,
		action: func() tea.Cmd {
			s := selection.New(e, selection.ModeAdd, h.deps.Categorizer, nil)
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		},
	})
	out = append(out, menuEntry{
		label:    "GOODIES",
		disabled: h.deps.Rewards == nil,
		action: func() tea.Cmd {
			s := goodies.New(e, h.deps.Rewards)
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		},
	})
	out = append(out, menuEntry{
		label: "RESET GAME",
		action: func() tea.Cmd {
			h.confirmReset = true
			return nil
		},
	})
	out = append(out, menuEntry{
		label: "LOG OUT",
		action: func() tea.Cmd {
			return func() tea.Msg { return screen.LogoutMsg{} }
		},
	})
	return out
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return h, nil
	}

	if h.confirmReset {
		switch kmsg.String() {
		case "y":
			h.confirmReset = false
			return h, h.resetGame()
		case "n", "esc":
			h.confirmReset = false
		}
		return h, nil
	}

	entries := h.entries()
	menu := h.menu(entries)
	menu, cmd := menu.Update(msg)
	h.selected = menu.Selected
	return h, cmd
}

// menu wraps entries in a components.Menu, keeping the cursor in range and
// off disabled items.
func (h *HomeScreen) menu(entries []menuEntry) components.Menu {
	items := make([]components.MenuItem, len(entries))
	for i, en := range entries {
		items[i] = components.MenuItem{Label: en.label, Disabled: en.disabled, Action: en.action}
	}
	return components.NewMenu(items, h.selected)
}

func (h *HomeScreen) resetGame() tea.Cmd {
	e := h.deps.Engine
	if err := e.ResetGame(); err != nil {
		h.errMsg = err.Error()
		return nil
	}
	h.selected = 0
	if len(e.Snapshot().Interests) > 0 {
		return nil
	}
	deps := h.deps
	s := selection.New(e, selection.ModeInitial, deps.Categorizer, func() screen.Screen { return New(deps) })
	return func() tea.Msg { return router.ResetScreenMsg{Screen: s} }
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.Compact(width, height)

	e := h.deps.Engine
	snap := e.Snapshot()
	catalog := e.Catalog()
	cw := components.ContentWidth(width)

	menu := h.menu(h.entries())
	menu.Compact = compact

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(snap), cw))
	}
	sections = append(sections, renderStatsBar(snap, catalog, cw, compact))
	if snap.AllInterestsComplete {
		sections = append(sections, renderCompletionBanner(cw))
	}
	sections = append(sections, renderTracks(snap, catalog, e.Now(), cw))

	if h.confirmReset {
		sections = append(sections, components.ArcadeCard(
			"Reset all credits and progress?\n\nPress Y to confirm, N to cancel", cw))
	} else {
		sections = append(sections, renderMenu(menu, cw))
	}
	if h.errMsg != "" {
		sections = append(sections, h.errMsg)
	}

	content := strings.Join(sections, "\n\n")
	return components.CabinetFrame(content, width, height)
}
