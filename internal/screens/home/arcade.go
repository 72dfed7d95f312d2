package home

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/rewards"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

const arcadeTitleFull = `╦  ╔═╗╔═╗╦═╗╔╗╔╔═╗ ╦ ╦╔═╗╔═╗╔╦╗
║  ║╣ ╠═╣╠╦╝║║║║═╬╗║ ║║╣ ╚═╗ ║
╩═╝╚═╝╩ ╩╩╚═╝╚╝╚═╝╚╚═╝╚═╝╚═╝ ╩ `

const arcadeTitleCompact = "L · E · A · R · N · Q · U · E · S · T"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(style.Render(arcadeTitleCompact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(arcadeTitleFull))
}

// renderStatsBar renders credits, finished tracks and the next goodie in a
// bordered box matching content width.
func renderStatsBar(snap progress.Snapshot, catalog interests.Catalog, cw int, compact bool) string {
	creditStyle := lipgloss.NewStyle().Foreground(theme.Credit).Bold(true)
	trackStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	nextStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	done := 0
	for _, k := range snap.Interests {
		if r, ok := snap.Record(k); ok && r.Complete(catalog.TotalStages(k)) {
			done++
		}
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			creditStyle.Render(fmt.Sprintf("★%d", snap.Credits)),
			trackStyle.Render(fmt.Sprintf("✓%d/%d", done, len(snap.Interests))),
			nextGoodieText(snap.Credits, true, nextStyle, dimStyle),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			creditStyle.Render(fmt.Sprintf("★ %d CREDITS", snap.Credits)),
			trackStyle.Render(fmt.Sprintf("✓ %d/%d TRACKS", done, len(snap.Interests))),
			nextGoodieText(snap.Credits, false, nextStyle, dimStyle),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func nextGoodieText(credits int, compact bool, active, dim lipgloss.Style) string {
	g, ok := rewards.Next(credits)
	if !ok {
		return dim.Render("◆ ALL GOODIES")
	}
	if compact {
		return active.Render(fmt.Sprintf("◆%d", g.Threshold()-credits))
	}
	return active.Render(fmt.Sprintf("◆ %d TO %s", g.Threshold()-credits, strings.ToUpper(g.Name)))
}

// renderTracks renders one line per chosen interest with hearts and progress.
func renderTracks(snap progress.Snapshot, catalog interests.Catalog, now time.Time, cw int) string {
	var lines []string
	for _, k := range snap.Interests {
		r, _ := snap.Record(k)
		total := catalog.TotalStages(k)

		name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render(fmt.Sprintf("%s %-11s", k.Icon(), k.DisplayName()))

		bar := components.StageBar(r.CompletedStages(), total, 10)

		line := name + "  " + components.Hearts(r.Hearts) + "  " + bar
		if r.Complete(total) {
			line += "  " + theme.Completed.Render("DONE")
		} else if cd := components.HeartCountdown(r, now); cd != "" {
			line += "  " + theme.Hint.Render(cd)
		}
		lines = append(lines, line)
	}
	return components.ArcadeCard(lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n")), cw)
}

// renderCompletionBanner celebrates finishing every chosen track.
func renderCompletionBanner(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Banner.Render("ALL QUESTS COMPLETE! Add a new interest to keep going"))
}

// renderMenu places the menu in the content column: centered buttons, or
// left-aligned lines when compact.
func renderMenu(menu components.Menu, cw int) string {
	align := lipgloss.Center
	if menu.Compact {
		align = lipgloss.Left
	}
	return lipgloss.NewStyle().Width(cw).Align(align).Render(menu.View())
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
