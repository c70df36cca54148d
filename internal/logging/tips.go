package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tapworks/knockmeter/internal/mains"
	"github.com/tapworks/knockmeter/internal/meter"
)

// SessionTip represents a single piece of actionable advice derived from
// the levels and counts of a finished session.
type SessionTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "room_noise_high")
}

// MaxSessionTips is the maximum number of tips to return.
const MaxSessionTips = 3

// GenerateSessionTips analyses a finished session and returns prioritised
// setup improvement suggestions. Sessions that never calibrated carry no
// usable measurements, so they produce no tips.
func GenerateSessionTips(s meter.Summary) []SessionTip {
	if !s.Calibrated {
		return nil
	}

	var tips []SessionTip
	firedRules := make(map[string]bool)

	rules := []func(meter.Summary) *SessionTip{
		tipNarrowMargin,
		tipRoomNoise,
		tipHotSignal,
		tipNoKnocks,
		tipAllHard,
		tipAllSoft,
	}

	for _, rule := range rules {
		if tip := rule(s); tip != nil {
			tips = append(tips, *tip)
			firedRules[tip.RuleID] = true
		}
	}

	// Apply mutual exclusion
	tips = applyExclusions(tips, firedRules)

	// Sort by priority (descending)
	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	// Cap at maximum
	if len(tips) > MaxSessionTips {
		tips = tips[:MaxSessionTips]
	}

	return tips
}

// applyExclusions removes tips that are redundant when a more specific tip
// has already fired. A narrow calibration margin already explains missing
// or one-sided counts, so those tips are suppressed alongside it.
func applyExclusions(tips []SessionTip, fired map[string]bool) []SessionTip {
	var result []SessionTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "no_knocks", "all_hard", "all_soft":
			if fired["calibration_margin_narrow"] {
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// tipNarrowMargin fires when the calibration reference sits too close to
// the room baseline. Detection needs the level to clear baseline + 15 dB,
// so a margin at or under that offset means knocks cannot register at all.
func tipNarrowMargin(s meter.Summary) *SessionTip {
	margin := s.ReferenceMax - s.Baseline
	if margin > meter.PeakThreshold {
		return nil
	}
	return &SessionTip{
		Priority: 10,
		RuleID:   "calibration_margin_narrow",
		Message: fmt.Sprintf("Your calibration strike was only %.0f dB above the room noise - knocks need more than %.0f dB to register. Strike harder during calibration or move the microphone closer.",
			margin, meter.PeakThreshold),
	}
}

// tipRoomNoise fires when the measured room baseline is elevated.
// Above -30 dBFS the detection margin collapses; above -45 dBFS it is
// merely tighter than it should be.
func tipRoomNoise(s meter.Summary) *SessionTip {
	if s.Baseline > -30.0 {
		return &SessionTip{
			Priority: 9,
			RuleID:   "room_noise_high",
			Message: fmt.Sprintf("The room noise floor is high (%.0f dBFS) - try turning off fans, air conditioning, or other appliances near the microphone. A %d Hz mains hum from nearby electronics is a common culprit.",
				s.Baseline, mains.HumHz()),
		}
	}
	if s.Baseline > -45.0 {
		return &SessionTip{
			Priority: 6,
			RuleID:   "room_noise_moderate",
			Message:  fmt.Sprintf("The room noise floor is slightly elevated (%.0f dBFS) - a quieter room would give knocks more headroom.", s.Baseline),
		}
	}
	return nil
}

// tipHotSignal fires when the loudest block of the session approached or
// reached the digital ceiling. Clipped strikes flatten the level readings
// the classifier depends on.
func tipHotSignal(s meter.Summary) *SessionTip {
	if s.SessionPeak <= -3.0 {
		return nil
	}
	if s.SessionPeak > -1.0 {
		return &SessionTip{
			Priority: 9,
			RuleID:   "level_clipping",
			Message:  "Your loudest knock hit the digital ceiling - clipped strikes can be misclassified. Turn the input gain down by 6-10 dB.",
		}
	}
	return &SessionTip{
		Priority: 7,
		RuleID:   "level_near_clipping",
		Message:  "Your loudest knock came very close to clipping - turn the input gain down by 3-6 dB to keep some headroom.",
	}
}

// tipNoKnocks fires when a full session registered nothing at all.
func tipNoKnocks(s meter.Summary) *SessionTip {
	if s.Aborted || s.Total() > 0 {
		return nil
	}
	return &SessionTip{
		Priority: 8,
		RuleID:   "no_knocks",
		Message:  "No knocks registered this session. Make sure you are striking the surface the microphone is pointed at, or strike harder.",
	}
}

// tipAllHard fires when every knock in a non-trivial session classified
// as hard, suggesting the calibration strike was too gentle.
func tipAllHard(s meter.Summary) *SessionTip {
	if s.Total() < 5 || s.Soft > 0 {
		return nil
	}
	return &SessionTip{
		Priority: 5,
		RuleID:   "all_hard",
		Message:  "Every knock registered as hard. If you expected a mix, calibrate with your strongest possible strike so the bar sits higher.",
	}
}

// tipAllSoft fires when every knock in a non-trivial session classified
// as soft, suggesting the calibration strike was far louder than anything
// that followed.
func tipAllSoft(s meter.Summary) *SessionTip {
	if s.Total() < 5 || s.Hard > 0 {
		return nil
	}
	return &SessionTip{
		Priority: 5,
		RuleID:   "all_soft",
		Message:  "Every knock registered as soft. Your calibration strike may have been much louder than your session knocks - calibrate with a typical hard knock instead.",
	}
}
