// Package layout draws the frame every screen sits in: a header with the
// breadcrumb and the learner's credits, the screen body, and a footer of
// key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// The smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// Screen bodies narrower or shorter than this switch to their dense layout.
const (
	compactBodyWidth  = 100
	compactBodyHeight = 28
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Chrome is what the frame shows around a screen body.
type Chrome struct {
	Title   string // breadcrumb of the open screens
	Learner string // empty before login
	Credits int
	Hints   []KeyHint
}

var (
	barStyle     = lipgloss.NewStyle().Background(theme.BgCard).Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)
	brandStyle   = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(theme.Text)
	learnerStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	creditStyle  = lipgloss.NewStyle().Foreground(theme.Credit).Bold(true)
	hintKey      = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	hintDesc     = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// Compact reports whether a body of the given size should use the dense
// layout of its screen.
func Compact(bodyWidth, bodyHeight int) bool {
	return bodyWidth < compactBodyWidth || bodyHeight < compactBodyHeight
}

// Frame renders c around the body drawn by body, which receives the size
// left between header and footer. A terminal below MinWidth x MinHeight
// gets a resize notice instead.
func Frame(c Chrome, width, height int, body func(width, height int) string) string {
	if width < MinWidth || height < MinHeight {
		return resizeNotice(width, height)
	}

	top := header(c, width)
	bottom := footer(c.Hints, width)
	h := max(height-lipgloss.Height(top)-lipgloss.Height(bottom), 0)
	mid := lipgloss.NewStyle().Width(width).Height(h).Render(body(width, h))
	return lipgloss.JoinVertical(lipgloss.Left, top, mid, bottom)
}

// header centres the title between the brand and the learner badge.
func header(c Chrome, width int) string {
	inner := max(width-4, 0)
	brand := brandStyle.Render(" LearnQuest")
	title := titleStyle.Render(c.Title)

	badge := ""
	if c.Learner != "" {
		badge = learnerStyle.Render(c.Learner) + "   " + creditStyle.Render(fmt.Sprintf("★ %d", c.Credits))
	}

	left := max((inner-lipgloss.Width(title))/2, lipgloss.Width(brand)+1)
	right := max(inner-left-lipgloss.Width(title), lipgloss.Width(badge))
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(left).Render(brand),
		title,
		lipgloss.NewStyle().Width(right).Align(lipgloss.Right).Render(badge),
	)
	return barStyle.Width(width).Render(row)
}

func footer(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = hintKey.Render(h.Key) + " " + hintDesc.Render(h.Description)
	}
	return barStyle.Width(width).Render(" " + strings.Join(parts, hintDesc.Render("  ·  ")))
}

func resizeNotice(width, height int) string {
	msg := fmt.Sprintf("Terminal too small for the quest map!\n\nMake it at least %d x %d.\nIt is %d x %d now.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}
