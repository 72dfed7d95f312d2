package goodies

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

type statusesLoadedMsg struct {
	Statuses []rewards.Status
	Err      error
}

type claimedMsg struct {
	Goodie rewards.Goodie
	Err    error
}

// GoodiesScreen shows every goodie tier and claims real-world ones.
type GoodiesScreen struct {
	engine       *progress.Engine
	service      *rewards.Service
	all          []rewards.Status
	selectedType int // index into rewards.AllTypes
	cursor       int
	loaded       bool
	errMsg       string
	notice       string
}

var _ screen.Screen = (*GoodiesScreen)(nil)
var _ screen.KeyHintProvider = (*GoodiesScreen)(nil)

// New creates a new GoodiesScreen.
func New(engine *progress.Engine, service *rewards.Service) *GoodiesScreen {
	return &GoodiesScreen{
		engine:  engine,
		service: service,
	}
}

func (s *GoodiesScreen) Init() tea.Cmd {
	return s.load()
}

func (s *GoodiesScreen) load() tea.Cmd {
	identity := s.engine.Identity()
	credits := s.engine.Snapshot().Credits
	svc := s.service
	return func() tea.Msg {
		statuses, err := svc.Statuses(context.Background(), identity, credits)
		return statusesLoadedMsg{Statuses: statuses, Err: err}
	}
}

func (s *GoodiesScreen) Title() string {
	return "Goodies"
}

func (s *GoodiesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch type"},
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Claim"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *GoodiesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusesLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.all = msg.Statuses
		}
		s.loaded = true
		return s, nil

	case claimedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.notice = ""
			return s, nil
		}
		s.errMsg = ""
		s.notice = fmt.Sprintf("%s %s claimed! Ask a grown-up to hand it over.", msg.Goodie.Icon, msg.Goodie.Name)
		return s, s.load()

	case tea.KeyPressMsg:
		types := rewards.AllTypes()
		switch msg.String() {
		case "tab":
			s.selectedType = (s.selectedType + 1) % len(types)
			s.cursor = 0
		case "shift+tab":
			s.selectedType = (s.selectedType - 1 + len(types)) % len(types)
			s.cursor = 0
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.filtered())-1 {
				s.cursor++
			}
		case "enter":
			return s, s.claim()
		}
	}
	return s, nil
}

func (s *GoodiesScreen) claim() tea.Cmd {
	filtered := s.filtered()
	if s.cursor >= len(filtered) {
		return nil
	}
	st := filtered[s.cursor]
	if !st.Claimable() {
		s.notice = ""
		s.errMsg = fmt.Sprintf("%s is yours automatically once unlocked.", st.Name)
		return nil
	}
	identity := s.engine.Identity()
	credits := s.engine.Snapshot().Credits
	svc := s.service
	g := st.Goodie
	return func() tea.Msg {
		_, err := svc.Claim(context.Background(), identity, credits, g.ID)
		return claimedMsg{Goodie: g, Err: err}
	}
}

func (s *GoodiesScreen) filtered() []rewards.Status {
	t := rewards.AllTypes()[s.selectedType]
	var out []rewards.Status
	for _, st := range s.all {
		if st.Type == t {
			out = append(out, st)
		}
	}
	return out
}

func (s *GoodiesScreen) countUnlocked(t rewards.Type) int {
	count := 0
	for _, st := range s.all {
		if st.Type == t && st.Unlocked {
			count++
		}
	}
	return count
}

func (s *GoodiesScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading goodies...")
	}

	var b strings.Builder

	credits := s.engine.Snapshot().Credits
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Credit).Bold(true).
		Render(fmt.Sprintf("\n★ %d credits\n", credits)))
	b.WriteString("\n")

	// Type tabs.
	var tabs []string
	for i, t := range rewards.AllTypes() {
		label := fmt.Sprintf("%s (%d)", t.DisplayName(), s.countUnlocked(t))
		if i == s.selectedType {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "   ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for i, st := range s.filtered() {
		prefix := "  "
		if i == s.cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %-18s %4d pts  %s", prefix, st.Icon, st.Name, st.Threshold(), statusLabel(st))
		style := lipgloss.NewStyle().Foreground(statusColor(st))
		if i == s.cursor {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Correct.Render(s.notice)))
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.ErrorText.Render(s.errMsg)))
	}

	return b.String()
}

func statusLabel(st rewards.Status) string {
	switch {
	case st.Claimed:
		return "CLAIMED"
	case st.Unlocked && st.Claimable():
		return "CLAIM ME"
	case st.Unlocked:
		return "UNLOCKED"
	default:
		return "LOCKED"
	}
}

func statusColor(st rewards.Status) color.Color {
	switch {
	case st.Claimed:
		return theme.Success
	case st.Unlocked && st.Claimable():
		return theme.Accent
	case st.Unlocked:
		return theme.ArcadeYellow
	default:
		return theme.Border
	}
}
