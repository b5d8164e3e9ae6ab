package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the terminal output.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // gray

	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	diffAddStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	diffDelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	diffHdrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	errorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("1"))
)
