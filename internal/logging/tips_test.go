package logging

import (
	"strings"
	"testing"

	"github.com/tapworks/knockmeter/internal/meter"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		indent   string
		want     string
	}{
		{
			name:     "short_text_no_wrap",
			text:     "Hello world",
			maxWidth: 20,
			indent:   "  ",
			want:     "Hello world",
		},
		{
			name:     "long_text_wraps",
			text:     "Try moving closer to your microphone for better results",
			maxWidth: 30,
			indent:   "  ",
			want:     "Try moving closer to your\n  microphone for better results",
		},
		{
			name:     "single_long_word",
			text:     "supercalifragilisticexpialidocious",
			maxWidth: 10,
			indent:   "  ",
			want:     "supercalifragilisticexpialidocious",
		},
		{
			name:     "empty_input",
			text:     "",
			maxWidth: 20,
			indent:   "  ",
			want:     "",
		},
		{
			name:     "exact_fit",
			text:     "exactly twenty chars",
			maxWidth: 20,
			indent:   "  ",
			want:     "exactly twenty chars",
		},
		{
			name:     "multiple_wraps",
			text:     "one two three four five six seven eight nine ten",
			maxWidth: 15,
			indent:   "    ",
			want:     "one two three\n    four five six\n    seven eight\n    nine ten",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.maxWidth, tt.indent)
			if got != tt.want {
				t.Errorf("wrapText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTipNarrowMargin(t *testing.T) {
	tests := []struct {
		name         string
		baseline     float64
		referenceMax float64
		wantTip      bool
		wantText     string // substring to check in message, empty to skip
	}{
		{"margin well under offset", -55.0, -45.0, true, "10 dB"},
		{"margin exactly at offset", -55.0, -40.0, true, "15 dB"},
		{"margin just above offset", -55.0, -39.9, false, ""},
		{"comfortable margin", -60.0, -10.0, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := meter.Summary{Calibrated: true, Baseline: tt.baseline, ReferenceMax: tt.referenceMax}
			tip := tipNarrowMargin(s)
			if (tip != nil) != tt.wantTip {
				t.Fatalf("tipNarrowMargin() tip = %v, wantTip %v", tip, tt.wantTip)
			}
			if tip == nil {
				return
			}
			if tip.RuleID != "calibration_margin_narrow" {
				t.Errorf("RuleID = %q, want %q", tip.RuleID, "calibration_margin_narrow")
			}
			if tt.wantText != "" && !strings.Contains(tip.Message, tt.wantText) {
				t.Errorf("Message %q should contain %q", tip.Message, tt.wantText)
			}
		})
	}
}

func TestTipRoomNoise(t *testing.T) {
	tests := []struct {
		name       string
		baseline   float64
		wantTip    bool
		wantRuleID string
		wantText   string
	}{
		{"very noisy room", -25.0, true, "room_noise_high", "-25 dBFS"},
		{"boundary -30 is moderate not high", -30.0, true, "room_noise_moderate", "-30 dBFS"},
		{"moderately noisy room", -40.0, true, "room_noise_moderate", "slightly elevated"},
		{"boundary -45 no tip", -45.0, false, "", ""},
		{"quiet room", -60.0, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := meter.Summary{Calibrated: true, Baseline: tt.baseline}
			tip := tipRoomNoise(s)
			if (tip != nil) != tt.wantTip {
				t.Fatalf("tipRoomNoise() tip = %v, wantTip %v", tip, tt.wantTip)
			}
			if tip == nil {
				return
			}
			if tip.RuleID != tt.wantRuleID {
				t.Errorf("RuleID = %q, want %q", tip.RuleID, tt.wantRuleID)
			}
			if tt.wantText != "" && !strings.Contains(tip.Message, tt.wantText) {
				t.Errorf("Message %q should contain %q", tip.Message, tt.wantText)
			}
		})
	}
}

func TestTipHotSignal(t *testing.T) {
	tests := []struct {
		name       string
		peak       float64
		wantTip    bool
		wantRuleID string
	}{
		{"over full scale", 0.5, true, "level_clipping"},
		{"at full scale", 0.0, true, "level_clipping"},
		{"just below ceiling", -0.5, true, "level_clipping"},
		{"boundary -1 is near not clipping", -1.0, true, "level_near_clipping"},
		{"hot but not clipping", -2.0, true, "level_near_clipping"},
		{"boundary -3 no tip", -3.0, false, ""},
		{"healthy headroom", -12.0, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := meter.Summary{Calibrated: true, SessionPeak: tt.peak}
			tip := tipHotSignal(s)
			if (tip != nil) != tt.wantTip {
				t.Fatalf("tipHotSignal() tip = %v, wantTip %v", tip, tt.wantTip)
			}
			if tip != nil && tip.RuleID != tt.wantRuleID {
				t.Errorf("RuleID = %q, want %q", tip.RuleID, tt.wantRuleID)
			}
		})
	}
}

func TestTipNoKnocks(t *testing.T) {
	tests := []struct {
		name    string
		hard    int
		soft    int
		aborted bool
		wantTip bool
	}{
		{"silent full session", 0, 0, false, true},
		{"silent aborted session", 0, 0, true, false},
		{"hard knocks registered", 2, 0, false, false},
		{"soft knocks registered", 0, 1, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := meter.Summary{Calibrated: true, Hard: tt.hard, Soft: tt.soft, Aborted: tt.aborted}
			tip := tipNoKnocks(s)
			if (tip != nil) != tt.wantTip {
				t.Fatalf("tipNoKnocks() tip = %v, wantTip %v", tip, tt.wantTip)
			}
			if tip != nil && tip.RuleID != "no_knocks" {
				t.Errorf("RuleID = %q, want %q", tip.RuleID, "no_knocks")
			}
		})
	}
}

func TestTipAllHard(t *testing.T) {
	tests := []struct {
		name    string
		hard    int
		soft    int
		wantTip bool
	}{
		{"five hard no soft", 5, 0, true},
		{"many hard no soft", 20, 0, true},
		{"four hard below gate", 4, 0, false},
		{"one soft breaks pattern", 5, 1, false},
		{"empty session", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := meter.Summary{Calibrated: true, Hard: tt.hard, Soft: tt.soft}
			tip := tipAllHard(s)
			if (tip != nil) != tt.wantTip {
				t.Fatalf("tipAllHard() tip = %v, wantTip %v", tip, tt.wantTip)
			}
			if tip != nil && tip.RuleID != "all_hard" {
				t.Errorf("RuleID = %q, want %q", tip.RuleID, "all_hard")
			}
		})
	}
}

func TestTipAllSoft(t *testing.T) {
	tests := []struct {
		name    string
		hard    int
		soft    int
		wantTip bool
	}{
		{"five soft no hard", 0, 5, true},
		{"four soft below gate", 0, 4, false},
		{"one hard breaks pattern", 1, 5, false},
		{"empty session", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := meter.Summary{Calibrated: true, Hard: tt.hard, Soft: tt.soft}
			tip := tipAllSoft(s)
			if (tip != nil) != tt.wantTip {
				t.Fatalf("tipAllSoft() tip = %v, wantTip %v", tip, tt.wantTip)
			}
			if tip != nil && tip.RuleID != "all_soft" {
				t.Errorf("RuleID = %q, want %q", tip.RuleID, "all_soft")
			}
		})
	}
}

// hasRuleID checks if any tip in the slice has the given RuleID.
func hasRuleID(tips []SessionTip, ruleID string) bool {
	for _, tip := range tips {
		if tip.RuleID == ruleID {
			return true
		}
	}
	return false
}

// ruleIDs extracts RuleIDs from tips for error messages.
func ruleIDs(tips []SessionTip) []string {
	ids := make([]string, len(tips))
	for i, tip := range tips {
		ids[i] = tip.RuleID
	}
	return ids
}

func TestGenerateSessionTips(t *testing.T) {
	tests := []struct {
		name             string
		summary          meter.Summary
		wantRuleIDs      []string // these RuleIDs must be present
		excludeRuleIDs   []string // these RuleIDs must NOT be present
		checkFirstRuleID string   // if set, first tip must have this RuleID
		maxTips          int      // if > 0, verify len(tips) <= this
		wantExact        int      // if > 0, verify len(tips) == this
		wantEmpty        bool     // if true, verify tips is nil or empty
	}{
		{
			name: "uncalibrated session produces no tips",
			summary: meter.Summary{
				Calibrated:   false,
				Aborted:      true,
				Baseline:     -20.0,
				ReferenceMax: -15.0,
				SessionPeak:  0.5,
			},
			wantEmpty: true,
		},
		{
			name: "narrow margin suppresses no_knocks",
			summary: meter.Summary{
				Calibrated:   true,
				Baseline:     -55.0,
				ReferenceMax: -45.0,
				SessionPeak:  -45.0,
			},
			wantRuleIDs:    []string{"calibration_margin_narrow"},
			excludeRuleIDs: []string{"no_knocks"},
		},
		{
			name: "narrow margin suppresses all_soft",
			summary: meter.Summary{
				Calibrated:   true,
				Baseline:     -55.0,
				ReferenceMax: -42.0,
				SessionPeak:  -40.0,
				Soft:         6,
			},
			wantRuleIDs:    []string{"calibration_margin_narrow"},
			excludeRuleIDs: []string{"all_soft"},
		},
		{
			name: "priority ordering narrow margin first",
			summary: meter.Summary{
				Calibrated:   true,
				Baseline:     -40.0,
				ReferenceMax: -28.0,
				SessionPeak:  -28.0,
			},
			checkFirstRuleID: "calibration_margin_narrow",
		},
		{
			name: "priority ordering clipping before counts",
			summary: meter.Summary{
				Calibrated:   true,
				Baseline:     -60.0,
				ReferenceMax: -10.0,
				SessionPeak:  0.5,
				Hard:         6,
			},
			wantRuleIDs:      []string{"level_clipping", "all_hard"},
			checkFirstRuleID: "level_clipping",
		},
		{
			name: "bad session hits the cap",
			summary: meter.Summary{
				Calibrated:   true,
				Baseline:     -28.0,
				ReferenceMax: -10.0,
				SessionPeak:  0.2,
				Hard:         7,
			},
			wantRuleIDs: []string{"room_noise_high", "level_clipping", "all_hard"},
			maxTips:     MaxSessionTips,
			wantExact:   3,
		},
		{
			name: "clean session no tips",
			summary: meter.Summary{
				Calibrated:   true,
				Baseline:     -60.0,
				ReferenceMax: -18.0,
				SessionPeak:  -12.0,
				Hard:         4,
				Soft:         3,
			},
			wantEmpty: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tips := GenerateSessionTips(tt.summary)

			if tt.wantEmpty {
				if len(tips) != 0 {
					t.Errorf("expected no tips, got %d: %v", len(tips), ruleIDs(tips))
				}
				return
			}

			for _, wantID := range tt.wantRuleIDs {
				if !hasRuleID(tips, wantID) {
					t.Errorf("expected RuleID %q in tips, got %v", wantID, ruleIDs(tips))
				}
			}

			for _, excludeID := range tt.excludeRuleIDs {
				if hasRuleID(tips, excludeID) {
					t.Errorf("RuleID %q should be excluded, got %v", excludeID, ruleIDs(tips))
				}
			}

			if tt.checkFirstRuleID != "" && len(tips) > 0 {
				if tips[0].RuleID != tt.checkFirstRuleID {
					t.Errorf("first tip RuleID = %q, want %q (tips: %v)", tips[0].RuleID, tt.checkFirstRuleID, ruleIDs(tips))
				}
			}

			if tt.maxTips > 0 && len(tips) > tt.maxTips {
				t.Errorf("got %d tips, want at most %d: %v", len(tips), tt.maxTips, ruleIDs(tips))
			}

			if tt.wantExact > 0 && len(tips) != tt.wantExact {
				t.Errorf("got %d tips, want exactly %d: %v", len(tips), tt.wantExact, ruleIDs(tips))
			}
		})
	}
}
