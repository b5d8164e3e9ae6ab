package main

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

const (
	defaultViewWidth  = 100
	defaultViewHeight = 24
	footerHeight      = 2
)

// errTestCancelled is returned by showTestResults when the user interrupted
// the run.
var errTestCancelled = errors.New("test cancelled")

type testDoneMsg struct {
	results provider.TestResults
	err     error
}

type resultsKeyMap struct {
	Quit key.Binding
}

var resultsKeys = resultsKeyMap{
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c", "enter")),
}

// resultsModel runs a provider test behind a spinner and then shows the
// rendered report in a scrollable viewport. ctrl+c during the run cancels
// it; the viewer closes only once run has returned.
type resultsModel struct {
	ctx    context.Context
	cancel context.CancelFunc
	name   string
	run    func(ctx context.Context) (provider.TestResults, error)

	spinner  spinner.Model
	viewport viewport.Model

	done       bool
	cancelling bool
	results    provider.TestResults
	err        error
}

func newResultsModel(ctx context.Context, name string, run func(context.Context) (provider.TestResults, error)) resultsModel {
	ctx, cancel := context.WithCancel(ctx)
	return resultsModel{
		ctx:      ctx,
		cancel:   cancel,
		name:     name,
		run:      run,
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle)),
		viewport: viewport.New(defaultViewWidth, defaultViewHeight-footerHeight),
	}
}

func (m resultsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runTest)
}

func (m resultsModel) runTest() tea.Msg {
	res, err := m.run(m.ctx)
	return testDoneMsg{results: res, err: err}
}

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-footerHeight)
		if m.done {
			m.viewport.SetContent(m.content())
		}
		return m, nil

	case testDoneMsg:
		m.done = true
		m.cancel()
		m.results, m.err = msg.results, msg.err
		if m.cancelling {
			return m, tea.Quit
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !key.Matches(msg, resultsKeys.Quit) {
			break
		}
		if m.done {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" && !m.cancelling {
			m.cancelling = true
			m.cancel()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m resultsModel) content() string {
	var verrs providerform.ValidationErrors
	if errors.As(m.err, &verrs) {
		return errorBlockStyle.Render(providerform.FormatValidationErrors(verrs))
	}
	if m.err != nil {
		return errorBlockStyle.Render(m.err.Error())
	}
	return renderMarkdown(testReport(m.name, m.results))
}

func (m resultsModel) View() string {
	if m.cancelling {
		return m.spinner.View() + " " + dimStyle.Render("Cancelling test of "+m.name+"...")
	}
	if !m.done {
		return m.spinner.View() + " " + dimStyle.Render("Testing "+m.name+"...")
	}

	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.err == nil {
		sb.WriteString(testSummary(m.results))
		sb.WriteString("  ")
	}
	sb.WriteString(dimStyle.Render("↑/↓ scroll • q quit"))
	return sb.String()
}

// showTestResults runs run inside the results viewer and returns its
// outcome once the viewer is closed. An interrupted run reports
// errTestCancelled after run has returned.
func showTestResults(ctx context.Context, name string, run func(context.Context) (provider.TestResults, error)) (provider.TestResults, error) {
	initMarkdownRenderer(terminalWidth(defaultViewWidth) - 4)

	final, err := tea.NewProgram(newResultsModel(ctx, name, run), tea.WithAltScreen()).Run()
	if err != nil {
		return provider.TestResults{}, err
	}
	m, _ := final.(resultsModel)
	if m.cancelling {
		return provider.TestResults{}, errTestCancelled
	}
	return m.results, m.err
}
