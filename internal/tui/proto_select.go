package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type protoOption struct {
	value string
	desc  string
}

type protoSelectModel struct {
	state   *wizardState
	cursor  int
	options []protoOption
}

func newProtoSelectModel(state *wizardState) *protoSelectModel {
	return &protoSelectModel{
		state: state,
		options: []protoOption{
			{value: "http", desc: "Backend speaks plain HTTP (the usual case)"},
			{value: "https", desc: "Backend terminates its own TLS"},
		},
	}
}

func (m *protoSelectModel) Init() tea.Cmd {
	for i, opt := range m.options {
		if opt.value == m.state.protocol {
			m.cursor = i
			break
		}
	}
	return nil
}

func (m *protoSelectModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenPortInput} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			m.state.protocol = m.options[m.cursor].value
			return m, func() tea.Msg { return navigateMsg{to: screenOptions} }
		}
	}
	return m, nil
}

func (m *protoSelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Backend Protocol"))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		radio := radioOff
		label := normalStyle.Render(opt.value)
		if i == m.cursor {
			radio = radioOn
			label = selectedStyle.Render(opt.value)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, label))
		b.WriteString(fmt.Sprintf("      %s\n", mutedStyle.Render(opt.desc)))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}
