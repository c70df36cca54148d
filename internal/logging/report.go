// Package logging handles generation of the written report for finished sessions

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tapworks/knockmeter/internal/meter"
)

// =============================================================================
// Level Interpretation Functions
// =============================================================================
// These functions interpret session level measurements and return
// human-readable descriptions of the capture conditions.

// interpretBaseline describes the room noise floor the session ran against.
// Quiet rooms sit well below -55 dBFS; anything above -30 dBFS leaves too
// little margin for knock detection.
func interpretBaseline(db float64) string {
	switch {
	case db < -70:
		return "very quiet room"
	case db < -55:
		return "quiet room, good conditions"
	case db < -45:
		return "moderate background noise"
	case db < -30:
		return "noticeable background noise"
	default:
		return "noisy, detection unreliable"
	}
}

// interpretMargin describes the gap between the calibration reference and
// the room baseline. Registration requires a level more than 15 dB over
// the baseline, so margins at or under that offset are dead sessions.
func interpretMargin(db float64) string {
	switch {
	case db <= meter.PeakThreshold:
		return "too small, knocks cannot register"
	case db < 25:
		return "workable, prefer louder strikes"
	case db < 40:
		return "good separation"
	default:
		return "excellent separation"
	}
}

// interpretPeak describes the loudest block seen during the session.
func interpretPeak(db float64) string {
	switch {
	case db > -1:
		return "at the digital ceiling, likely clipping"
	case db > -6:
		return "hot signal, little headroom"
	case db > -20:
		return "healthy level"
	default:
		return "conservative level"
	}
}

// levelsTable builds the level summary table shared by the console output
// and the written report.
func levelsTable(s meter.Summary) *MetricTable {
	table := NewMetricTable("Level")

	margin := s.ReferenceMax - s.Baseline
	table.AddRow("Room Baseline", []string{formatMetricDB(s.Baseline, 1)}, "dBFS", interpretBaseline(s.Baseline))
	table.AddRow("Reference Max", []string{formatMetricDB(s.ReferenceMax, 1)}, "dBFS", "")
	table.AddRow("Hard Threshold", []string{formatMetricDB(s.Threshold, 1)}, "dBFS", "")
	table.AddRow("Detection Margin", []string{formatMetricSigned(margin, 1)}, "dB", interpretMargin(margin))
	table.AddRow("Session Peak", []string{formatMetricDB(s.SessionPeak, 1)}, "dBFS", interpretPeak(s.SessionPeak))

	return table
}

// =============================================================================
// Report Section Formatting Helpers
// =============================================================================

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate a session report
type ReportData struct {
	SessionID  uuid.UUID
	Device     string
	Format     string
	SampleRate uint32
	Channels   uint32
	StartTime  time.Time
	EndTime    time.Time
	Summary    meter.Summary
}

// GenerateReport creates a session report and saves it in the working
// directory as knockmeter-<timestamp>.log, returning the path written.
//
// Report structure:
// 1. Header - session identity, device, capture configuration
// 2. Session Summary - counts, timing, outcome
// 3. Signal Levels - level table with interpretations
// 4. Session Tips - setup advice derived from the measurements
func GenerateReport(data ReportData) (string, error) {
	logPath := fmt.Sprintf("knockmeter-%s.log", data.StartTime.Format("20060102-150405"))

	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeSessionSummary(f, data)
	writeSignalLevels(f, data.Summary)
	writeSessionTips(f, data.Summary)

	return logPath, nil
}

// writeReportHeader outputs the report header with session and capture info.
func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "Knockmeter Session Report")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintf(w, "Session:  %s\n", data.SessionID)
	fmt.Fprintf(w, "Device:   %s\n", data.Device)
	fmt.Fprintf(w, "Capture:  %s @ %d Hz, %s\n", data.Format, data.SampleRate, channelName(int(data.Channels)))
	fmt.Fprintf(w, "Finished: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w, "")
}

// writeSessionSummary outputs the counts and timing for the session.
func writeSessionSummary(w io.Writer, data ReportData) {
	writeSection(w, "Session Summary")

	s := data.Summary
	total := s.Total()
	fmt.Fprintln(w, countLine("Hard knocks:", s.Hard, total))
	fmt.Fprintln(w, countLine("Soft knocks:", s.Soft, total))
	fmt.Fprintf(w, "Total:       %d\n", total)
	fmt.Fprintf(w, "Session:     %s of %s\n", formatDuration(s.Elapsed), formatDuration(s.Limit))

	outcome := "completed"
	if s.Aborted {
		outcome = "stopped early"
	}
	if !s.Calibrated {
		outcome += " (before calibration)"
	}
	fmt.Fprintf(w, "Outcome:     %s\n", outcome)
	fmt.Fprintln(w, "")
}

// writeSignalLevels outputs the level table, or a note when the session
// ended before any levels were established.
func writeSignalLevels(w io.Writer, s meter.Summary) {
	writeSection(w, "Signal Levels")

	if !s.Calibrated {
		fmt.Fprintln(w, "Session ended before calibration completed - no level data")
		fmt.Fprintln(w, "")
		return
	}

	fmt.Fprint(w, levelsTable(s).String())
	fmt.Fprintln(w, "")
}

// writeSessionTips outputs the tips section when any rules fired.
func writeSessionTips(w io.Writer, s meter.Summary) {
	tips := GenerateSessionTips(s)
	if len(tips) == 0 {
		return
	}

	writeSection(w, "Session Tips")
	for _, tip := range tips {
		fmt.Fprintf(w, "• %s\n", wrapText(tip.Message, 78, "  "))
	}
	fmt.Fprintln(w, "")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// channelName returns a human-readable channel name
func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
