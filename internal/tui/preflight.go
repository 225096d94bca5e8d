package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Octacer/linux-setup/internal/routectl"
)

type preflightDoneMsg []routectl.CheckResult

// preflightModel runs the doctor battery before provisioning. All-green
// moves straight on; any warning pauses for the operator, who can continue,
// re-run, or bail out.
type preflightModel struct {
	state    *wizardState
	spinner  spinner.Model
	running  bool
	results  []routectl.CheckResult
	warnings int
	cursor   int // 0=Continue, 1=Cancel
}

func newPreflightModel(state *wizardState) *preflightModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &preflightModel{state: state, spinner: sp}
}

func (m *preflightModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startChecks())
}

func (m *preflightModel) startChecks() tea.Cmd {
	m.running = true
	m.results = nil
	m.warnings = 0
	m.cursor = 0
	paths := m.state.paths
	return func() tea.Msg {
		return preflightDoneMsg(routectl.RunChecks(paths))
	}
}

func (m *preflightModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case preflightDoneMsg:
		m.running = false
		m.results = msg
		for _, r := range m.results {
			if !r.OK {
				m.warnings++
			}
		}
		if m.warnings == 0 {
			return m, func() tea.Msg { return navigateMsg{to: screenProgress} }
		}
		return m, nil

	case tea.KeyMsg:
		if m.running || m.warnings == 0 {
			return m, nil
		}
		switch {
		case msg.String() == "r":
			return m, tea.Batch(m.spinner.Tick, m.startChecks())
		case isLeft(msg) && m.cursor > 0:
			m.cursor--
		case isRight(msg) && m.cursor < 1:
			m.cursor++
		case isEnter(msg):
			if m.cursor == 0 {
				return m, func() tea.Msg { return navigateMsg{to: screenProgress} }
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *preflightModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pre-flight Checks"))
	b.WriteString("\n\n")

	if m.running {
		b.WriteString(fmt.Sprintf("  %s Checking host state...\n", m.spinner.View()))
		return b.String()
	}

	for _, r := range m.results {
		if r.OK {
			b.WriteString(fmt.Sprintf("  %s %s\n", successStyle.Render("OK"), normalStyle.Render(r.Name)))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				warningStyle.Render("!!"),
				normalStyle.Render(r.Name),
				mutedStyle.Render(r.Err.Error())))
		}
	}

	b.WriteString("\n")
	b.WriteString(warningStyle.Render(fmt.Sprintf("  %d of %d checks have warnings. Provisioning may fail partway.",
		m.warnings, len(m.results))))
	b.WriteString("\n\n")

	buttons := []string{"Continue", "Cancel"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}
	b.WriteString(helpStyle.Render("\n\n  left/right: navigate  enter: select  r: re-run checks"))

	return b.String()
}
