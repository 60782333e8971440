package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one entry in the interactive picker: a wallet, a network,
// or a minted subname.
type PickerItem struct {
	Label    string // primary text (wallet name, subname)
	SubLabel string // dimmed detail (address, expiry)
	Value    string // returned on selection; falls back to Label when empty
}

func (it PickerItem) value() string {
	if it.Value != "" {
		return it.Value
	}
	return it.Label
}

type pickerModel struct {
	title  string
	items  []PickerItem
	cursor int
	choice string
	done   bool
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "q", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit

	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)

	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.items)

	case "enter":
		m.choice = m.items[m.cursor].value()
		m.done = true
		return m, tea.Quit

	default:
		// Digits 1-9 select directly.
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < len(m.items) {
				m.choice = m.items[idx].value()
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n" + StyleTitle.Render("  "+m.title) + "\n\n")

	for i, it := range m.items {
		num := StyleMeta.Render(fmt.Sprintf("%d.", i+1))
		line := fmt.Sprintf("  %s %s", num, StyleValue.Render(it.Label))
		if it.SubLabel != "" {
			line += "  " + StyleMeta.Render(it.SubLabel)
		}

		if i == m.cursor {
			sb.WriteString(StyleSelected.Render("▸"+line[1:]) + "\n")
		} else {
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\n" + StyleMeta.Render("  ↑↓ move · 1-9 jump · enter select · q cancel") + "\n")
	return sb.String()
}

// PickItem runs the picker inline (no alternate screen, so surrounding
// command output stays visible) and returns the chosen item's value.
// A cancelled picker returns ("", nil).
func PickItem(title string, items []PickerItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items to pick from")
	}

	final, err := tea.NewProgram(pickerModel{title: title, items: items}).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	return final.(pickerModel).choice, nil
}
