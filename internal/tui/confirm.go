package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	state  *wizardState
	cursor int
}

func newConfirmModel(state *wizardState) *confirmModel {
	return &confirmModel{state: state}
}

func (m *confirmModel) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenOptions} }
		}
		if (isLeft(msg) || isUp(msg)) && m.cursor > 0 {
			m.cursor--
		}
		if (isRight(msg) || isDown(msg)) && m.cursor < 2 {
			m.cursor++
		}
		if isEnter(msg) {
			switch m.cursor {
			case 0: // Confirm
				// A pre-existing config file needs the operator's decision
				// before the pipeline runs.
				if _, err := os.Stat(m.state.paths.AvailablePath(m.state.domain)); err == nil {
					return m, func() tea.Msg { return navigateMsg{to: screenConflict} }
				}
				return m, func() tea.Msg { return navigateMsg{to: screenPreflight} }
			case 1: // Back
				return m, func() tea.Msg { return navigateMsg{to: screenOptions} }
			case 2: // Cancel
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *confirmModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Confirm Route"))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("  Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Domain:    %s\n", selectedStyle.Render(m.state.domain)))
	b.WriteString(fmt.Sprintf("  Backend:   %s\n", selectedStyle.Render(m.state.protocol+"://localhost:"+m.state.port)))
	b.WriteString(fmt.Sprintf("  IPv6:      %s\n", normalStyle.Render(yesNo(m.state.ipv6))))
	b.WriteString(fmt.Sprintf("  Upgrade:   %s\n", normalStyle.Render(yesNo(m.state.upgrade))))
	if m.state.softOK {
		b.WriteString("  " + warningStyle.Render("domain failed strict validation, accepted by operator"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Equivalent CLI Command"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  $ routectl add %s %s %s",
		m.state.domain, m.state.port, m.state.protocol)))
	b.WriteString("\n\n")

	buttons := []string{"Confirm", "Back", "Cancel"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("\n  left/right: navigate  enter: select  esc: back"))
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
