package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Octacer/linux-setup/internal/routectl"
)

type screen int

const (
	screenWelcome screen = iota
	screenPresetSelect
	screenDomainInput
	screenPortInput
	screenProtoSelect
	screenOptions
	screenConfirm
	screenConflict
	screenPreflight
	screenProgress
	screenComplete
	screenHelp
)

type navigateMsg struct {
	to screen
}

type resetMsg struct{}

type wizardState struct {
	paths routectl.Paths

	preset   string
	domain   string
	port     string
	protocol string
	ipv6     bool
	upgrade  bool

	// softOK records that the operator accepted a domain that failed
	// strict validation.
	softOK bool

	// conflict is the predecided answer for an existing configuration
	// file, asked before the pipeline starts.
	conflict routectl.ConflictChoice

	report *routectl.Report
	runErr error
}

type screenModel interface {
	Init() tea.Cmd
	Update(tea.Msg) (screenModel, tea.Cmd)
	View() string
}

type rootModel struct {
	current  screen
	previous screen
	state    *wizardState
	screens  map[screen]screenModel
	width    int
	height   int
	quitting bool
}

func StartWizard() error {
	state := &wizardState{paths: routectl.LoadPaths()}
	screens := map[screen]screenModel{
		screenWelcome:      newWelcomeModel(),
		screenPresetSelect: newPresetSelectModel(state),
		screenDomainInput:  newDomainInputModel(state),
		screenPortInput:    newPortInputModel(state),
		screenProtoSelect:  newProtoSelectModel(state),
		screenOptions:      newOptionsModel(state),
		screenConfirm:      newConfirmModel(state),
		screenConflict:     newConflictModel(state),
		screenPreflight:    newPreflightModel(state),
		screenProgress:     newProgressModel(state),
		screenComplete:     newCompleteModel(state),
		screenHelp:         newHelpModel(),
	}

	m := rootModel{
		current: screenWelcome,
		state:   state,
		screens: screens,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m rootModel) Init() tea.Cmd {
	return m.screens[m.current].Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Quit
		}
		if msg.String() == "?" && m.current != screenProgress && m.current != screenHelp {
			m.previous = m.current
			m.current = screenHelp
			return m, m.screens[m.current].Init()
		}

	case navigateMsg:
		m.current = msg.to
		s := m.screens[m.current]
		return m, s.Init()

	case resetMsg:
		m.state.preset = ""
		m.state.domain = ""
		m.state.port = ""
		m.state.protocol = ""
		m.state.ipv6 = false
		m.state.upgrade = false
		m.state.softOK = false
		m.state.conflict = 0
		m.state.report = nil
		m.state.runErr = nil
		m.screens[screenOptions] = newOptionsModel(m.state)
		m.current = screenPresetSelect
		return m, m.screens[m.current].Init()

	case helpReturnMsg:
		m.current = m.previous
		return m, nil
	}

	s := m.screens[m.current]
	newScreen, cmd := s.Update(msg)
	m.screens[m.current] = newScreen
	return m, cmd
}

func (m rootModel) View() string {
	if m.quitting {
		return ""
	}

	s := m.screens[m.current]
	content := s.View()

	// Step indicator for the input screens only.
	if m.current >= screenPresetSelect && m.current <= screenConfirm {
		step := int(m.current)
		total := int(screenConfirm)
		progress := mutedStyle.Render(fmt.Sprintf("Step %d of %d", step, total))
		content = content + "\n" + progress
	}

	return content
}
