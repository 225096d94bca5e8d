package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var logo = `
 ██████╗  ██████╗ ██╗   ██╗████████╗███████╗ ██████╗████████╗██╗
 ██╔══██╗██╔═══██╗██║   ██║╚══██╔══╝██╔════╝██╔════╝╚══██╔══╝██║
 ██████╔╝██║   ██║██║   ██║   ██║   █████╗  ██║        ██║   ██║
 ██╔══██╗██║   ██║██║   ██║   ██║   ██╔══╝  ██║        ██║   ██║
 ██║  ██║╚██████╔╝╚██████╔╝   ██║   ███████╗╚██████╗   ██║   ███████╗
 ╚═╝  ╚═╝ ╚═════╝  ╚═════╝    ╚═╝   ╚══════╝ ╚═════╝   ╚═╝   ╚══════╝
`

type menuItem struct {
	label string
	desc  string
}

type welcomeModel struct {
	cursor int
	items  []menuItem
}

func newWelcomeModel() *welcomeModel {
	return &welcomeModel{
		items: []menuItem{
			{label: "New Route", desc: "Point a domain at a local backend over HTTPS"},
			{label: "Exit", desc: "Quit the wizard"},
		},
	}
}

func (m *welcomeModel) Init() tea.Cmd {
	return nil
}

func (m *welcomeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.items)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			switch m.cursor {
			case 0:
				return m, func() tea.Msg { return navigateMsg{to: screenPresetSelect} }
			case 1:
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *welcomeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Reverse-Proxy Route Wizard"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s\n", cursorChar, selectedStyle.Render(item.label)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", normalStyle.Render(item.label)))
		}
		b.WriteString(fmt.Sprintf("    %s\n", mutedStyle.Render(item.desc)))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  ?: help  ctrl+c: quit"))
	return b.String()
}
