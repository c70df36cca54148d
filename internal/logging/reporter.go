package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tapworks/knockmeter/internal/meter"
)

// Styles for session lines
var (
	announceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFA500"))

	hardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#B87333"))

	softStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	finishStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AA00"))
)

// Reporter prints session events as styled console lines. It is the
// monitor's sink; events arrive sequentially on the monitor goroutine.
type Reporter struct {
	out        io.Writer
	showCounts bool
}

// NewReporter creates a reporter writing to out. When showCounts is set,
// every knock line carries the running totals.
func NewReporter(out io.Writer, showCounts bool) *Reporter {
	return &Reporter{out: out, showCounts: showCounts}
}

// CalibrationStarted announces that the reference strike is expected.
func (r *Reporter) CalibrationStarted() {
	fmt.Fprintln(r.out, announceStyle.Render("Calibrating - strike as hard as you can to set the reference."))
}

// CalibrationFinished announces the reference level and the timer start.
func (r *Reporter) CalibrationFinished(referenceMax float64) {
	fmt.Fprintln(r.out, announceStyle.Render("Calibration complete - the clock is running!"))
	fmt.Fprintln(r.out, clockStyle.Render(fmt.Sprintf("Reference set at %s dBFS", formatMetricDB(referenceMax, 1))))
}

// Hit prints one knock line.
func (r *Reporter) Hit(h meter.Hit) {
	tag := softStyle.Render("Soft knock")
	if h.Class == meter.ClassHard {
		tag = hardStyle.Render("Hard knock!")
	}

	line := tag + "  " + clockStyle.Render(formatMetricDB(h.Level, 1)+" dBFS")
	if r.showCounts {
		line += fmt.Sprintf("  (hard %d · soft %d)", h.Hard, h.Soft)
	}
	line += "  " + clockStyle.Render(FormatClock(h.Remaining)+" remaining")
	fmt.Fprintln(r.out, line)
}

// Finished prints the end-of-session summary, level table, and tips.
func (r *Reporter) Finished(s meter.Summary) {
	fmt.Fprintln(r.out)
	if s.Aborted {
		fmt.Fprintln(r.out, finishStyle.Render("Session stopped early."))
	} else {
		fmt.Fprintln(r.out, finishStyle.Render("Time's up!"))
	}
	fmt.Fprintln(r.out)
	total := s.Total()
	fmt.Fprintln(r.out, countLine("Hard knocks:", s.Hard, total))
	fmt.Fprintln(r.out, countLine("Soft knocks:", s.Soft, total))
	fmt.Fprintf(r.out, "Total:       %d\n", total)

	if s.Calibrated {
		fmt.Fprintln(r.out)
		fmt.Fprint(r.out, levelsTable(s).String())
	}

	if tips := GenerateSessionTips(s); len(tips) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Session tips:")
		for _, tip := range tips {
			fmt.Fprintf(r.out, "  • %s\n", wrapText(tip.Message, 76, "    "))
		}
	}
}

// FormatClock renders a countdown as MM:SS, flooring to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
