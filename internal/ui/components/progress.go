package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// StageBar draws track progress as a bar of width cells followed by a
// "done/total" count. done is clamped to [0, total].
func StageBar(done, total, width int) string {
	width = max(width, 4)
	done = min(max(done, 0), total)

	filled := 0
	if total > 0 {
		filled = width * done / total
	}

	bar := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", width-filled))

	count := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d/%d", done, total))
	return bar + " " + count
}
