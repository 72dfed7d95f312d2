package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗ █████╗ ██████╗ ███╗   ██╗ ██████╗ ██╗   ██╗███████╗███████╗████████╗
 ██║     ██╔════╝██╔══██╗██╔══██╗████╗  ██║██╔═══██╗██║   ██║██╔════╝██╔════╝╚══██╔══╝
 ██║     █████╗  ███████║██████╔╝██╔██╗ ██║██║   ██║██║   ██║█████╗  ███████╗   ██║
 ██║     ██╔══╝  ██╔══██║██╔══██╗██║╚██╗██║██║▄▄ ██║██║   ██║██╔══╝  ╚════██║   ██║
 ███████╗███████╗██║  ██║██║  ██║██║ ╚████║╚██████╔╝╚██████╔╝███████╗███████║   ██║
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝ ╚══▀▀═╝  ╚═════╝ ╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "L E A R N Q U E S T"

// bannerMinWidth is the narrowest terminal that fits the block-letter art.
const bannerMinWidth = 88

// RenderBanner returns the LEARNQUEST banner styled in the primary color.
// Uses a compact fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
