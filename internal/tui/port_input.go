package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Octacer/linux-setup/internal/routectl"
)

type portInputModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newPortInputModel(state *wizardState) *portInputModel {
	ti := textinput.New()
	ti.Placeholder = "8080"
	ti.CharLimit = 5
	ti.Width = 10

	return &portInputModel{
		state: state,
		input: ti,
	}
}

func (m *portInputModel) Init() tea.Cmd {
	if m.state.port != "" {
		m.input.SetValue(m.state.port)
	}
	m.errMsg = ""
	m.input.Focus()
	return textinput.Blink
}

func (m *portInputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenDomainInput} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if _, res := routectl.ValidatePort(val); res.Verdict != routectl.VerdictValid {
				m.errMsg = res.Reason
				return m, nil
			}
			m.errMsg = ""
			m.state.port = val
			return m, func() tea.Msg { return navigateMsg{to: screenProtoSelect} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *portInputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Backend Port"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("The local port the service listens on (1-65535)."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: continue  esc: back"))
	return b.String()
}
