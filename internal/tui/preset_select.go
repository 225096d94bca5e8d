package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Octacer/linux-setup/internal/routectl"
)

type presetOption struct {
	value string
	label string
	desc  string
}

type presetSelectModel struct {
	state   *wizardState
	cursor  int
	options []presetOption
}

func newPresetSelectModel(state *wizardState) *presetSelectModel {
	options := []presetOption{
		{value: "", label: "custom", desc: "Enter port and protocol by hand"},
	}
	for _, name := range routectl.SortedPresetNames() {
		p := routectl.PresetCatalog[name]
		options = append(options, presetOption{
			value: name,
			label: name,
			desc:  fmt.Sprintf("%s (port %d)", p.Description, p.Port),
		})
	}
	return &presetSelectModel{state: state, options: options}
}

func (m *presetSelectModel) Init() tea.Cmd {
	for i, opt := range m.options {
		if opt.value == m.state.preset {
			m.cursor = i
			break
		}
	}
	return nil
}

func (m *presetSelectModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenWelcome} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			m.state.preset = m.options[m.cursor].value
			if p, ok := routectl.PresetCatalog[m.state.preset]; ok {
				m.state.port = strconv.Itoa(p.Port)
				m.state.protocol = string(p.Protocol)
				m.state.upgrade = p.Upgrade
			}
			return m, func() tea.Msg { return navigateMsg{to: screenDomainInput} }
		}
	}
	return m, nil
}

func (m *presetSelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select Service"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Presets prefill the backend settings; everything stays editable."))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		radio := radioOff
		label := normalStyle.Render(opt.label)
		if i == m.cursor {
			radio = radioOn
			label = selectedStyle.Render(opt.label)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, label))
		b.WriteString(fmt.Sprintf("      %s\n", mutedStyle.Render(opt.desc)))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}
