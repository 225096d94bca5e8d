package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Octacer/linux-setup/internal/routectl"
)

type conflictOption struct {
	choice routectl.ConflictChoice
	label  string
}

// conflictModel presents the four-choice menu for a domain whose virtual
// host file already exists. The decision is recorded and replayed to the
// pipeline, which cannot pause for input once running.
type conflictModel struct {
	state    *wizardState
	cursor   int
	options  []conflictOption
	viewing  bool
	existing string
}

func newConflictModel(state *wizardState) *conflictModel {
	return &conflictModel{
		state: state,
		options: []conflictOption{
			{choice: routectl.ChoiceBackup, label: "Back up the existing file, then write the new configuration"},
			{choice: routectl.ChoiceOverwrite, label: "Overwrite in place"},
			{choice: routectl.ChoiceView, label: "Show the existing configuration and abort"},
			{choice: routectl.ChoiceAbort, label: "Abort, change nothing"},
		},
	}
}

func (m *conflictModel) Init() tea.Cmd {
	m.cursor = 0
	m.viewing = false
	m.existing = ""
	return nil
}

func (m *conflictModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.viewing {
			// view-then-abort: any exit leaves the file untouched
			if isEnter(msg) || isEsc(msg) || msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenConfirm} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			choice := m.options[m.cursor].choice
			switch choice {
			case routectl.ChoiceView:
				content, err := os.ReadFile(m.state.paths.AvailablePath(m.state.domain))
				if err != nil {
					m.existing = "could not read existing config: " + err.Error()
				} else {
					m.existing = string(content)
				}
				m.viewing = true
				return m, nil
			case routectl.ChoiceAbort:
				return m, tea.Quit
			default:
				m.state.conflict = choice
				return m, func() tea.Msg { return navigateMsg{to: screenPreflight} }
			}
		}
	}
	return m, nil
}

func (m *conflictModel) View() string {
	var b strings.Builder

	if m.viewing {
		b.WriteString(titleStyle.Render("Existing Configuration"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(m.existing))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("\n  no changes were made - press q to exit"))
		return b.String()
	}

	b.WriteString(titleStyle.Render("Configuration Exists"))
	b.WriteString("\n")
	b.WriteString(warningStyle.Render(fmt.Sprintf("  %s already has a virtual host file.", m.state.domain)))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		radio := radioOff
		label := normalStyle.Render(opt.label)
		if i == m.cursor {
			radio = radioOn
			label = selectedStyle.Render(opt.label)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, label))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}
