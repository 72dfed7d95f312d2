package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all arcade sections.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonState is how a menu button is drawn.
type ButtonState int

const (
	ButtonIdle ButtonState = iota
	ButtonSelected
	ButtonDisabled
)

// ArcadeButton renders one bordered menu button of the given width.
func ArcadeButton(label string, state ButtonState, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	switch state {
	case ButtonSelected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	case ButtonDisabled:
		return style.Foreground(theme.TextDim).Render(label)
	default:
		return style.Foreground(theme.Text).Render(label)
	}
}

// CompactButton renders a borderless menu line for small terminals.
func CompactButton(label string, state ButtonState) string {
	switch state {
	case ButtonSelected:
		return lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Bold(true).
			Render(" ▸ " + label + " ")
	case ButtonDisabled:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
	default:
		return lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
	}
}

// GameOver renders the out-of-hearts banner with an optional hint below it.
func GameOver(hints ...string) string {
	lines := []string{theme.ErrorText.Render("GAME OVER")}
	for _, h := range hints {
		if h != "" {
			lines = append(lines, theme.Hint.Render(h))
		}
	}
	return strings.Join(lines, "\n")
}
