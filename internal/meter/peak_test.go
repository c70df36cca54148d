package meter

import "testing"

// Thresholds shared by the tracker tests: a -40 dB baseline with the
// default entry offset and hysteresis.
const (
	testEntry = -25.0 // baseline + 15
	testReset = -29.0 // entry - 4
)

func TestTrackerRegistersOnceAboveEntry(t *testing.T) {
	var p peakTracker

	if !p.observe(-20.0, testEntry, testReset, ResetDistance) {
		t.Fatal("level above entry threshold did not register")
	}
	if !p.active {
		t.Fatal("tracker idle immediately after registration")
	}

	// A sustained loud level must not register again.
	for i := 0; i < 20; i++ {
		if p.observe(-20.0, testEntry, testReset, ResetDistance) {
			t.Fatalf("re-registered on tick %d while still active", i+1)
		}
	}
	if !p.active {
		t.Fatal("tracker went idle while the level stayed above the reset threshold")
	}
}

func TestTrackerRequiresDistanceAndQuietToReset(t *testing.T) {
	tests := []struct {
		name       string
		level      float64 // constant level after registration
		ticks      int
		wantActive bool
	}{
		{
			name:       "quiet_but_too_soon",
			level:      -60.0,
			ticks:      8, // distance reaches 8, not past it
			wantActive: true,
		},
		{
			name:       "quiet_past_distance",
			level:      -60.0,
			ticks:      9,
			wantActive: false,
		},
		{
			name:       "distant_but_still_loud",
			level:      -27.0, // below entry, above reset
			ticks:      30,
			wantActive: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p peakTracker
			if !p.observe(-20.0, testEntry, testReset, ResetDistance) {
				t.Fatal("registration failed")
			}
			for i := 0; i < tt.ticks; i++ {
				if p.observe(tt.level, testEntry, testReset, ResetDistance) {
					t.Fatalf("registered during hold-off on tick %d", i+1)
				}
			}
			if p.active != tt.wantActive {
				t.Errorf("active = %v after %d ticks at %v dB, want %v",
					p.active, tt.ticks, tt.level, tt.wantActive)
			}
		})
	}
}

func TestTrackerRegistersAgainAfterReset(t *testing.T) {
	var p peakTracker

	if !p.observe(-20.0, testEntry, testReset, ResetDistance) {
		t.Fatal("first registration failed")
	}
	for i := 0; i < 9; i++ {
		p.observe(-60.0, testEntry, testReset, ResetDistance)
	}
	if p.active {
		t.Fatal("tracker still active after nine quiet ticks")
	}

	if !p.observe(-18.0, testEntry, testReset, ResetDistance) {
		t.Fatal("second burst did not register after re-arm")
	}
}

func TestTrackerIgnoresLevelsBelowEntry(t *testing.T) {
	var p peakTracker

	// Exactly at the entry threshold is not enough; detection is strict.
	if p.observe(testEntry, testEntry, testReset, ResetDistance) {
		t.Error("registered at exactly the entry threshold")
	}
	if p.observe(-30.0, testEntry, testReset, ResetDistance) {
		t.Error("registered below the entry threshold")
	}
	if p.active {
		t.Error("tracker active without a registration")
	}
}
