package track

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/interests"
	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/router"
	"github.com/abhisek/learnquest/internal/screen"
	"github.com/abhisek/learnquest/internal/screens/stage"
	"github.com/abhisek/learnquest/internal/ui/components"
	"github.com/abhisek/learnquest/internal/ui/layout"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// TrackScreen lists the stages of one interest with their lock state.
type TrackScreen struct {
	engine *progress.Engine
	key    interests.Key
	cursor int
	errMsg string
}

var _ screen.Screen = (*TrackScreen)(nil)
var _ screen.KeyHintProvider = (*TrackScreen)(nil)

// New creates a TrackScreen for key. The cursor starts on the next stage
// to play.
func New(engine *progress.Engine, key interests.Key) *TrackScreen {
	t := &TrackScreen{engine: engine, key: key}
	t.cursor = t.nextStage()
	return t
}

// nextStage is the cursor position of the first unplayed stage, or the last
// stage once the track is complete.
func (t *TrackScreen) nextStage() int {
	r, ok := t.engine.Snapshot().Record(t.key)
	if !ok {
		return 0
	}
	last := len(t.engine.Catalog().Stages(t.key)) - 1
	return max(min(r.UnlockedStage-1, last), 0)
}

func (t *TrackScreen) Init() tea.Cmd {
	return nil
}

func (t *TrackScreen) Title() string {
	return t.key.DisplayName()
}

func (t *TrackScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
	}
	if t.record().Hearts <= 0 {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Restart"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (t *TrackScreen) record() progress.Record {
	r, _ := t.engine.Snapshot().Record(t.key)
	return r
}

func (t *TrackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.ResumedMsg); ok {
		// Back from a stage: follow the learner to the newly unlocked one.
		t.cursor = t.nextStage()
		t.errMsg = ""
		return t, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return t, nil
	}

	stages := t.engine.Catalog().Stages(t.key)
	switch kmsg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(stages)-1 {
			t.cursor++
		}
	case "r":
		if t.record().Hearts <= 0 {
			if err := t.engine.ResetHearts(t.key); err != nil {
				t.errMsg = err.Error()
			} else {
				t.errMsg = ""
			}
		}
	case "enter":
		if t.cursor >= len(stages) {
			return t, nil
		}
		st := stages[t.cursor]
		switch t.record().StageStatus(st.ID) {
		case progress.StageLocked:
			t.errMsg = "Finish the stages before this one to unlock it."
			return t, nil
		case progress.StageBlocked:
			t.errMsg = "Out of hearts! Press R to restart."
			return t, nil
		}
		t.errMsg = ""
		next := stage.New(t.engine, t.key, st)
		return t, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
	return t, nil
}

func statusIcon(s progress.StageStatus) string {
	switch s {
	case progress.StageCompleted:
		return theme.Completed.Render("✓")
	case progress.StagePlayable:
		return lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render("▶")
	case progress.StageBlocked:
		return theme.HeartFull.Render("✖")
	default:
		return theme.Locked.Render("🔒")
	}
}

func (t *TrackScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	r := t.record()
	stages := t.engine.Catalog().Stages(t.key)

	header := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("%s %s", t.key.Icon(), strings.ToUpper(t.key.DisplayName())))
	hearts := components.Hearts(r.Hearts)
	if cd := components.HeartCountdown(r, t.engine.Now()); cd != "" {
		hearts += "  " + theme.Hint.Render(cd)
	}

	var lines []string
	for i, st := range stages {
		status := r.StageStatus(st.ID)
		label := fmt.Sprintf("%s  Stage %d: %s", statusIcon(status), st.ID, st.Title)
		meta := theme.Hint.Render(status.DisplayName())
		switch {
		case i == t.cursor:
			lines = append(lines, theme.Selected.Render("▸ ")+label+"  "+meta)
		case status == progress.StageLocked:
			lines = append(lines, "  "+theme.Locked.Render(label))
		default:
			lines = append(lines, "  "+label+"  "+meta)
		}
	}

	sections := []string{header, hearts, lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n"))}

	total := len(stages)
	switch {
	case r.Complete(total):
		sections = append(sections, theme.Banner.Render("TRACK COMPLETE!"))
	case r.Hearts <= 0:
		sections = append(sections, components.GameOver("Press R to restart with full hearts"))
	}
	if t.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(t.errMsg))
	}

	body := strings.Join(sections, "\n\n")
	return components.CabinetFrame(components.ArcadeCard(body, cw), width, height)
}
