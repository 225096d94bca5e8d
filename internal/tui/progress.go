package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Octacer/linux-setup/internal/routectl"
)

type stepMsg routectl.StepResult

type pipelineDoneMsg struct {
	report *routectl.Report
	err    error
}

// progressModel runs the provisioning pipeline in the background and shows
// each stage as it completes. Operator decisions were all collected by the
// earlier screens, so the pipeline never blocks on input here.
type progressModel struct {
	state   *wizardState
	spinner spinner.Model
	steps   []routectl.StepResult
	ch      chan tea.Msg
	done    bool
	errMsg  string
}

func newProgressModel(state *wizardState) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &progressModel{state: state, spinner: sp}
}

func (m *progressModel) Init() tea.Cmd {
	m.steps = nil
	m.done = false
	m.errMsg = ""
	m.ch = make(chan tea.Msg, 32)

	in := routectl.Inputs{
		Domain:   m.state.domain,
		Port:     m.state.port,
		Protocol: m.state.protocol,
		IPv6:     m.state.ipv6,
		Upgrade:  m.state.upgrade,
		Email:    m.state.paths.Email,
	}

	paths := m.state.paths
	logger := log.New(io.Discard) // the step list is the progress display
	pipeline := &routectl.Pipeline{
		Paths:    paths,
		Proxy:    routectl.NewSystemdNginx(paths.SystemctlBin, paths.NginxBin, logger),
		Certs:    routectl.NewCertbotIssuer(paths.CertbotBin, logger),
		Resolver: routectl.FixedResolver{Choice: m.state.conflict},
		Prompter: routectl.AutoPrompter{AllowSoft: m.state.softOK},
		Registry: routectl.NewRegistry(paths.RegistryFile),
		Log:      logger,
		Observer: func(s routectl.StepResult) { m.ch <- stepMsg(s) },
	}

	go func() {
		report, err := pipeline.Provision(context.Background(), in)
		m.ch <- pipelineDoneMsg{report: report, err: err}
	}()

	return tea.Batch(m.spinner.Tick, m.waitMsg())
}

func (m *progressModel) waitMsg() tea.Cmd {
	return func() tea.Msg { return <-m.ch }
}

func (m *progressModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepMsg:
		m.steps = append(m.steps, routectl.StepResult(msg))
		return m, m.waitMsg()

	case pipelineDoneMsg:
		m.done = true
		m.state.report = msg.report
		m.state.runErr = msg.err
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return navigateMsg{to: screenComplete} }

	case tea.KeyMsg:
		if m.done && m.errMsg != "" {
			if isEnter(msg) || isEsc(msg) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Provisioning Route"))
	b.WriteString("\n\n")

	for _, step := range m.steps {
		icon := successStyle.Render("OK")
		if step.Err != nil {
			icon = errorStyle.Render("XX")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", icon, normalStyle.Render(step.Name)))
	}

	if !m.done {
		b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), mutedStyle.Render("working...")))
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  Error: " + m.errMsg))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("\n  press enter or esc to exit"))
	}

	return b.String()
}
