package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapworks/knockmeter/internal/capture"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m tea.Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m.(Model)
}

func testDevices() []capture.Device {
	return []capture.Device{
		{Index: 0, Name: "Line In"},
		{Index: 1, Name: "USB Microphone", Default: true},
	}
}

func TestWizardStartsOnDefaultDevice(t *testing.T) {
	m := NewModel(testDevices())
	assert.Equal(t, 1, m.cursor)
}

func TestWizardFullFlow(t *testing.T) {
	m := press(t, NewModel(testDevices()),
		"up", "down", // move around, end on the USB mic
		"enter",
		"2", ".", "5", "5", "backspace", "enter",
		"n",
	)

	assert.False(t, m.Cancelled)
	assert.Equal(t, "USB Microphone", m.Result.Device.Name)
	assert.Equal(t, 2.5, m.Result.Minutes)
	assert.False(t, m.Result.ShowCounts)
}

func TestWizardEnterDefaultsToShowingCounts(t *testing.T) {
	m := press(t, NewModel(testDevices()), "enter", "3", "enter", "enter")
	assert.True(t, m.Result.ShowCounts)
	assert.Equal(t, 3.0, m.Result.Minutes)
}

func TestWizardRejectsBadMinutes(t *testing.T) {
	tests := []struct {
		name  string
		typed []string
	}{
		{"zero", []string{"0"}},
		{"empty", nil},
		{"just_a_dot", []string{"."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := append([]string{"enter"}, tt.typed...)
			keys = append(keys, "enter")
			m := press(t, NewModel(testDevices()), keys...)

			require.Equal(t, stepMinutes, m.step, "bad input must not advance the wizard")
			assert.NotEmpty(t, m.errText)
		})
	}
}

func TestWizardIgnoresNonNumericInput(t *testing.T) {
	m := press(t, NewModel(testDevices()), "enter", "a", "1", "x", "0")
	assert.Equal(t, "10", m.minutes)
}

func TestWizardCancel(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"esc_on_device_step", []string{"esc"}},
		{"q_on_device_step", []string{"q"}},
		{"ctrl_c_while_typing", []string{"enter", "1", "ctrl+c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, NewModel(testDevices()), tt.keys...)
			assert.True(t, m.Cancelled)
		})
	}
}

func TestWizardCursorClamps(t *testing.T) {
	m := press(t, NewModel(testDevices()), "down", "down", "down")
	assert.Equal(t, 1, m.cursor)
	m = press(t, m, "up", "up", "up")
	assert.Equal(t, 0, m.cursor)
}
