package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the wizard header shared by all steps
func renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#B87333")).
		Render("Knockmeter 🥁 - Session Setup")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render("Answer a few questions to start the session")

	return title + "\n" + subtitle + "\n\n"
}

// renderDeviceStep renders the capture device picker
func renderDeviceStep(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader())
	b.WriteString("Select a capture device:\n\n")

	for i, d := range m.Devices {
		cursor := "  "
		name := d.Name
		if i == m.cursor {
			cursor = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B87333")).
				Render("▸ ")
		}
		if d.Default {
			name += lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Render(" (default)")
		}
		b.WriteString(fmt.Sprintf(" %s%s\n", cursor, name))
	}

	b.WriteString("\n")
	b.WriteString(renderHelp("↑/↓ move · enter select · esc cancel"))
	return b.String()
}

// renderMinutesStep renders the session length prompt
func renderMinutesStep(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader())
	b.WriteString(fmt.Sprintf("Device: %s\n\n", m.Result.Device.Name))
	b.WriteString("Session length in minutes:\n\n")
	b.WriteString(fmt.Sprintf(" > %s█\n", m.minutes))

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B87333")).
			Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHelp("type a number · enter confirm · esc cancel"))
	return b.String()
}

// renderCountsStep renders the running-totals toggle
func renderCountsStep(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader())
	b.WriteString(fmt.Sprintf("Device: %s\n", m.Result.Device.Name))
	b.WriteString(fmt.Sprintf("Length: %g minute(s)\n\n", m.Result.Minutes))
	b.WriteString("Show running totals after each knock? [Y/n]\n")

	b.WriteString("\n")
	b.WriteString(renderHelp("y/enter yes · n no · esc cancel"))
	return b.String()
}

// renderHelp renders the dimmed key hints footer
func renderHelp(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(text) + "\n"
}
