package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnquest/internal/ui/theme"
)

// NoCorrectAnswer marks a question without a right answer, such as a
// preference survey. Submitting it only highlights the chosen option.
const NoCorrectAnswer = -1

// MultiChoice is a lettered single-answer question.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a question with the cursor on the first option.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Reset clears the submission so the question can be answered again.
func (m MultiChoice) Reset() MultiChoice {
	return NewMultiChoice(m.Question, m.Options, m.CorrectIndex)
}

func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the cursor with up/down, jumps with an option letter or
// number, and submits on enter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, max(len(m.Options)-1, 0))
	case "enter":
		if len(m.Options) > 0 {
			m.Submitted = true
			m.ChosenIndex = m.Selected
		}
	default:
		if idx, ok := optionIndex(key); ok && idx < len(m.Options) {
			m.Selected = idx
		}
	}
	return m, nil
}

// optionIndex maps an option letter (a, B) or number (1-9) to its index.
// j and k stay navigation keys.
func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	switch c := key[0]; {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'i':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'I':
		return int(c - 'A'), true
	}
	return 0, false
}

func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)
		b.WriteString(m.optionStyle(i).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m MultiChoice) optionStyle(i int) lipgloss.Style {
	style := lipgloss.NewStyle()
	if !m.Submitted {
		if i == m.Selected {
			return style.Foreground(theme.Primary).Bold(true)
		}
		return style.Foreground(theme.Text)
	}

	switch {
	case m.CorrectIndex == NoCorrectAnswer && i == m.ChosenIndex:
		return style.Foreground(theme.Primary).Bold(true)
	case i == m.CorrectIndex:
		return style.Foreground(theme.Success).Bold(true)
	case i == m.ChosenIndex:
		return style.Foreground(theme.Error).Bold(true)
	default:
		return style.Foreground(theme.TextDim)
	}
}

// IsCorrect reports whether the submitted option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.CorrectIndex != NoCorrectAnswer && m.ChosenIndex == m.CorrectIndex
}

// OptionLabel returns the letter shown next to the i-th option.
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}
