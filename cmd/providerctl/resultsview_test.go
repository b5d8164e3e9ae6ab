package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/providerctl/pkg/provider"
	"github.com/germanamz/providerctl/pkg/providerform"
)

func TestResultsModel_Flow(t *testing.T) {
	calls := 0
	run := func(context.Context) (provider.TestResults, error) {
		calls++
		return sampleResults(), nil
	}

	m := newResultsModel(context.Background(), "Production", run)
	assert.Contains(t, m.View(), "Testing Production...")

	// The test command reports its result as a message.
	msg := m.runTest()
	require.IsType(t, testDoneMsg{}, msg)
	assert.Equal(t, 1, calls)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	next, _ = next.Update(msg)
	rm := next.(resultsModel)

	assert.True(t, rm.done)
	view := rm.View()
	assert.Contains(t, view, "Simple Json (1/2 passed)")
	assert.Contains(t, view, "1/3 checks passed")

	_, cmd := rm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestResultsModel_Error(t *testing.T) {
	m := newResultsModel(context.Background(), "x", nil)

	next, _ := m.Update(testDoneMsg{err: errors.New("Provider name is required")})
	view := next.View()
	assert.Contains(t, view, "Provider name is required")
	assert.NotContains(t, view, "checks passed")
}

func TestResultsModel_ValidationErrorsListed(t *testing.T) {
	m := newResultsModel(context.Background(), "", nil)

	verrs := providerform.ValidationErrors{{Path: "name", Message: providerform.MsgNameRequired}}
	next, _ := m.Update(testDoneMsg{err: verrs})
	view := next.View()

	assert.Contains(t, view, "Please fix the following validation errors")
	assert.Contains(t, view, providerform.MsgNameRequired)
	assert.NotContains(t, view, "providerform: invalid form")
}

func TestResultsModel_QuitIgnoredWhileRunning(t *testing.T) {
	m := newResultsModel(context.Background(), "x", nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd)
	assert.NoError(t, m.ctx.Err())
}

func TestResultsModel_CtrlCCancelsAndWaitsForRun(t *testing.T) {
	m := newResultsModel(context.Background(), "x", nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "the viewer stays open until the run returns")
	rm := next.(resultsModel)
	assert.True(t, rm.cancelling)
	assert.ErrorIs(t, rm.ctx.Err(), context.Canceled)
	assert.Contains(t, rm.View(), "Cancelling test of x...")

	next, cmd = rm.Update(testDoneMsg{err: context.Canceled})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, next.(resultsModel).done)
}
