// Package ui provides the Bubbletea setup wizard shown when a session
// is started without enough flags to run non-interactively.
package ui

import (
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tapworks/knockmeter/internal/capture"
)

// Selection holds the choices the wizard collects.
type Selection struct {
	Device     capture.Device
	Minutes    float64
	ShowCounts bool
}

type step int

const (
	stepDevice step = iota
	stepMinutes
	stepCounts
)

// Model is the Bubbletea model for the setup wizard
type Model struct {
	Devices []capture.Device

	// Outcome, read by the caller after the program exits
	Result    Selection
	Cancelled bool

	step    step
	cursor  int
	minutes string
	errText string
}

// NewModel creates a wizard over the given capture devices. The cursor
// starts on the backend's default device.
func NewModel(devices []capture.Device) Model {
	cursor := 0
	for i, d := range devices {
		if d.Default {
			cursor = i
			break
		}
	}
	return Model{Devices: devices, cursor: cursor}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.Cancelled = true
		return m, tea.Quit
	}

	switch m.step {
	case stepDevice:
		return m.updateDevice(key)
	case stepMinutes:
		return m.updateMinutes(key)
	default:
		return m.updateCounts(key)
	}
}

func (m Model) updateDevice(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		m.Cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.Devices)-1 {
			m.cursor++
		}
	case "enter":
		m.Result.Device = m.Devices[m.cursor]
		m.step = stepMinutes
	}
	return m, nil
}

func (m Model) updateMinutes(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		v, err := strconv.ParseFloat(m.minutes, 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) {
			m.errText = "Enter a positive number of minutes"
			return m, nil
		}
		m.Result.Minutes = v
		m.errText = ""
		m.step = stepCounts
	case "backspace":
		if len(m.minutes) > 0 {
			m.minutes = m.minutes[:len(m.minutes)-1]
		}
	default:
		s := key.String()
		if len(s) == 1 && len(m.minutes) < 8 && (s == "." || strings.ContainsAny(s, "0123456789")) {
			m.minutes += s
		}
	}
	return m, nil
}

func (m Model) updateCounts(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y", "enter":
		m.Result.ShowCounts = true
		return m, tea.Quit
	case "n", "N":
		m.Result.ShowCounts = false
		return m, tea.Quit
	}
	return m, nil
}

// View renders the wizard
func (m Model) View() string {
	if m.Cancelled {
		return ""
	}

	switch m.step {
	case stepDevice:
		return renderDeviceStep(m)
	case stepMinutes:
		return renderMinutesStep(m)
	default:
		return renderCountsStep(m)
	}
}

// Run shows the wizard and blocks until the user finishes or cancels.
// The second return is false when the user backed out.
func Run(devices []capture.Device) (Selection, bool, error) {
	final, err := tea.NewProgram(NewModel(devices)).Run()
	if err != nil {
		return Selection{}, false, err
	}
	m := final.(Model)
	if m.Cancelled {
		return Selection{}, false, nil
	}
	return m.Result, true, nil
}
