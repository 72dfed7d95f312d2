package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// MascotVariant is the mood of Hoot, the dashboard owl.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // every track complete
	MascotAlert                     // a track is out of hearts
)

var mascotArt = map[MascotVariant]string{
	MascotIdle: ` ,___,
 (O,O)
 /)_)
  ""`,
	MascotCelebrating: `\,___,/
 (*,*)
 /)_)
  ""  ★`,
	MascotAlert: ` ,___,
 (o,O) !
 /)_)
  ""`,
}

// mascotFor picks the owl's mood from the learner's state.
func mascotFor(snap progress.Snapshot) MascotVariant {
	if snap.AllInterestsComplete {
		return MascotCelebrating
	}
	for _, k := range snap.Interests {
		if r, ok := snap.Record(k); ok && r.Hearts <= 0 {
			return MascotAlert
		}
	}
	return MascotIdle
}

// RenderMascot returns the owl art for v.
func RenderMascot(v MascotVariant) string {
	fg := theme.Primary
	switch v {
	case MascotCelebrating:
		fg = theme.ArcadeYellow
	case MascotAlert:
		fg = theme.Accent
	}
	art, ok := mascotArt[v]
	if !ok {
		art = mascotArt[MascotIdle]
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
