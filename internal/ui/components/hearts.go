package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/learnquest/internal/progress"
	"github.com/abhisek/learnquest/internal/ui/theme"
)

// Hearts renders a row of full and empty hearts, e.g. "♥ ♥ ♡".
func Hearts(n int) string {
	if n < 0 {
		n = 0
	}
	if n > progress.MaxHearts {
		n = progress.MaxHearts
	}
	parts := make([]string, 0, progress.MaxHearts)
	for i := 0; i < progress.MaxHearts; i++ {
		if i < n {
			parts = append(parts, theme.HeartFull.Render("♥"))
		} else {
			parts = append(parts, theme.HeartEmpty.Render("♡"))
		}
	}
	return strings.Join(parts, " ")
}

// HeartCountdown describes when the next heart regenerates. It returns ""
// when the record is already at full hearts.
func HeartCountdown(r progress.Record, now time.Time) string {
	if r.Hearts >= progress.MaxHearts {
		return ""
	}
	d := r.NextHeartIn(now)
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("next ♥ in %ds", secs)
}
