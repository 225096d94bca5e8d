package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type completeModel struct {
	state  *wizardState
	cursor int // 0=Add Another Route, 1=Exit
}

func newCompleteModel(state *wizardState) *completeModel {
	return &completeModel{state: state}
}

func (m *completeModel) Init() tea.Cmd {
	m.cursor = 1
	return nil
}

func (m *completeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isLeft(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isRight(msg) && m.cursor < 1 {
			m.cursor++
		}
		if isEnter(msg) {
			if m.cursor == 0 {
				return m, func() tea.Msg { return resetMsg{} }
			}
			return m, tea.Quit
		}
		if msg.String() == "q" || isEsc(msg) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *completeModel) View() string {
	var b strings.Builder

	b.WriteString(successStyle.Render("  Route Provisioned!"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Domain:   %s\n", selectedStyle.Render(m.state.domain)))
	b.WriteString(fmt.Sprintf("  Backend:  %s\n", normalStyle.Render(m.state.protocol+"://localhost:"+m.state.port)))
	b.WriteString(fmt.Sprintf("  Config:   %s\n", normalStyle.Render(m.state.paths.AvailablePath(m.state.domain))))

	if report := m.state.report; report != nil {
		if report.CertErr != nil {
			b.WriteString("\n  " + warningStyle.Render("Certificate request failed - HTTPS is not live yet:"))
			b.WriteString("\n  " + mutedStyle.Render(report.CertErr.Error()))
			b.WriteString("\n")
		}
		for _, port := range []int{80, 443} {
			if report.Ports[port] {
				b.WriteString(fmt.Sprintf("  Port %d:  %s\n", port, successStyle.Render("listening")))
			} else {
				b.WriteString(fmt.Sprintf("  Port %d:  %s\n", port, warningStyle.Render("not listening")))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Next Steps"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  $ curl -I https://%s        # verify the route", m.state.domain)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ routectl list                  # show provisioned routes"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ routectl doctor                # verify host state"))
	b.WriteString("\n\n")

	buttons := []string{"Add Another Route", "Exit"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}

	b.WriteString(helpStyle.Render("\n\n  left/right: navigate  enter: select  q: quit"))
	return b.String()
}
