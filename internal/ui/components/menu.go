package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical button menu. The cursor never rests on a disabled item.
type Menu struct {
	Items    []MenuItem
	Selected int

	// Compact renders borderless lines instead of bordered buttons.
	Compact     bool
	ButtonWidth int
}

// NewMenu creates a menu with the cursor on selected, or on the first
// enabled item when selected is out of range or disabled.
func NewMenu(items []MenuItem, selected int) Menu {
	m := Menu{Items: items, ButtonWidth: 22}
	if m.enabled(selected) {
		m.Selected = selected
	} else {
		m.Selected = m.next(-1, 1)
	}
	return m
}

func (m Menu) enabled(i int) bool {
	return i >= 0 && i < len(m.Items) && !m.Items[i].Disabled
}

// next returns the first enabled index after from in direction step, or
// the current selection when there is none.
func (m Menu) next(from, step int) int {
	for i := from + step; i >= 0 && i < len(m.Items); i += step {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return m.Selected
}

// Update handles keyboard navigation and activation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.Selected = m.next(m.Selected, -1)
	case "down", "j":
		m.Selected = m.next(m.Selected, 1)
	case "home", "g":
		m.Selected = m.next(-1, 1)
	case "end", "G":
		m.Selected = m.next(len(m.Items), -1)
	case "enter":
		if m.enabled(m.Selected) && m.Items[m.Selected].Action != nil {
			return m, m.Items[m.Selected].Action()
		}
	}
	return m, nil
}

// View renders one button per item.
func (m Menu) View() string {
	lines := make([]string, len(m.Items))
	for i, item := range m.Items {
		state := ButtonIdle
		switch {
		case item.Disabled:
			state = ButtonDisabled
		case i == m.Selected:
			state = ButtonSelected
		}
		if m.Compact {
			lines[i] = CompactButton(item.Label, state)
		} else {
			lines[i] = ArcadeButton(item.Label, state, m.ButtonWidth)
		}
	}
	return strings.Join(lines, "\n")
}
