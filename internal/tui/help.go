package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type helpReturnMsg struct{}

type helpModel struct{}

func newHelpModel() *helpModel {
	return &helpModel{}
}

func (m *helpModel) Init() tea.Cmd {
	return nil
}

func (m *helpModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if isEsc(key) || isEnter(key) || key.String() == "q" || key.String() == "?" {
			return m, func() tea.Msg { return helpReturnMsg{} }
		}
	}
	return m, nil
}

func (m *helpModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Help"))
	b.WriteString("\n\n")

	rows := []struct{ key, desc string }{
		{"up/down, j/k", "move between options"},
		{"left/right, h/l", "move between buttons"},
		{"space", "toggle a checkbox"},
		{"enter", "confirm / continue"},
		{"esc", "go back one screen"},
		{"?", "this help"},
		{"ctrl+c", "quit without changes"},
	}
	for _, r := range rows {
		b.WriteString("  " + selectedStyle.Render(r.key))
		b.WriteString(strings.Repeat(" ", 20-len(r.key)))
		b.WriteString(normalStyle.Render(r.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  The wizard writes nothing to disk until you confirm the summary."))
	b.WriteString(helpStyle.Render("\n\n  press esc to return"))
	return b.String()
}
