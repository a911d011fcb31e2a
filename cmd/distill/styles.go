package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/distill"
)

// styles maps a Theme to lipgloss styles for stderr output.
type styles struct {
	success  lipgloss.Style
	repaired lipgloss.Style
	err      lipgloss.Style
	muted    lipgloss.Style
	label    lipgloss.Style
}

func newStyles(t distill.Theme) styles {
	return styles{
		success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		repaired: lipgloss.NewStyle().Foreground(ansiColor(t.Repaired)),
		err:      lipgloss.NewStyle().Foreground(ansiColor(t.Error)).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		label:    lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
