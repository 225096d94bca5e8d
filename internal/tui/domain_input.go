package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Octacer/linux-setup/internal/routectl"
)

type domainInputModel struct {
	state   *wizardState
	input   textinput.Model
	errMsg  string
	warning bool // a soft-invalid value is pending operator confirmation
}

func newDomainInputModel(state *wizardState) *domainInputModel {
	ti := textinput.New()
	ti.Placeholder = "api.example.com"
	ti.CharLimit = 253
	ti.Width = 40

	return &domainInputModel{
		state: state,
		input: ti,
	}
}

func (m *domainInputModel) Init() tea.Cmd {
	if m.state.domain != "" {
		m.input.SetValue(m.state.domain)
	}
	m.errMsg = ""
	m.warning = false
	m.input.Focus()
	return textinput.Blink
}

func (m *domainInputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenPresetSelect} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			res := routectl.ValidateDomain(val)
			switch res.Verdict {
			case routectl.VerdictHardInvalid:
				m.errMsg = res.Reason
				m.warning = false
				return m, nil
			case routectl.VerdictSoftInvalid:
				// A second enter on the same warned value accepts it.
				if m.warning && m.state.domain == val {
					m.state.softOK = true
					return m, func() tea.Msg { return navigateMsg{to: screenPortInput} }
				}
				m.state.domain = val
				m.warning = true
				m.errMsg = res.Reason + " - press enter again to use it anyway"
				return m, nil
			}
			m.errMsg = ""
			m.warning = false
			m.state.domain = val
			m.state.softOK = false
			return m, func() tea.Msg { return navigateMsg{to: screenPortInput} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *domainInputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Domain"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("The public hostname this route answers for."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		if m.warning {
			b.WriteString("\n  " + warningStyle.Render(m.errMsg))
		} else {
			b.WriteString("\n  " + errorStyle.Render(m.errMsg))
		}
	}

	b.WriteString(helpStyle.Render("\n  enter: continue  esc: back"))
	return b.String()
}
