package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type routeOption struct {
	label string
	desc  string
	value *bool
}

// optionsModel toggles the IPv6 and websocket/SSE flags.
type optionsModel struct {
	state   *wizardState
	cursor  int
	options []routeOption
}

func newOptionsModel(state *wizardState) *optionsModel {
	return &optionsModel{
		state: state,
		options: []routeOption{
			{label: "IPv6 listeners", desc: "Also listen on [::]:80 and [::]:443", value: &state.ipv6},
			{label: "Websocket/SSE support", desc: "Connection upgrade passthrough, long timeouts, no buffering", value: &state.upgrade},
		},
	}
}

func (m *optionsModel) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

func (m *optionsModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenProtoSelect} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isSpace(msg) {
			v := m.options[m.cursor].value
			*v = !*v
		}
		if isEnter(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenConfirm} }
		}
	}
	return m, nil
}

func (m *optionsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Route Options"))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		check := checkOff
		if *opt.value {
			check = checkOn
		}
		label := normalStyle.Render(opt.label)
		if i == m.cursor {
			label = selectedStyle.Render(opt.label)
		}
		cursor := " "
		if i == m.cursor {
			cursor = cursorChar
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", cursor, check, label))
		b.WriteString(fmt.Sprintf("      %s\n", mutedStyle.Render(opt.desc)))
	}

	b.WriteString(helpStyle.Render("\n  space: toggle  enter: continue  esc: back"))
	return b.String()
}
