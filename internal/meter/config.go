// Package meter implements the loudness estimator and burst classifier that
// turn a live capture stream into counted hard and soft hits.
package meter

import "time"

// Detection tuning constants.
// These control how quickly the ambient baseline adapts, how a burst is
// detected and debounced, and where the hard/soft boundary sits relative to
// the calibrated range.
const (
	// Control loop
	TickRate     = 50                     // Hz - classifier evaluation rate
	TickInterval = time.Second / TickRate // 20ms between classifier ticks

	// Session timing
	SettleDelay = 1 * time.Second // capture warm-up before any detection
	QuietPeriod = 2 * time.Second // no-new-maximum span that ends calibration

	// Baseline estimator
	BaselineWindow = 50 // blocks - exact mean up to here, then EWMA weight 1/50

	// Burst detection (dB relative to baseline)
	PeakThreshold  = 15.0 // entry: loudness must exceed baseline by this much
	ResetThreshold = 4.0  // hysteresis gap below entry before re-arming
	ResetDistance  = 8    // ticks - minimum debounce span before re-arming

	// Fraction of the calibrated range classified soft; the top
	// (1 - tolerance) slice of the range counts as hard.
	CalibrationTolerance = 0.9
)

// Config carries the tunables for one monitoring session.
type Config struct {
	TickInterval   time.Duration
	SettleDelay    time.Duration
	QuietPeriod    time.Duration
	BaselineWindow int
	PeakThreshold  float64
	ResetThreshold float64
	ResetDistance  int
	Tolerance      float64

	// TimeLimit is the operator-chosen session length, measured from the
	// moment calibration completes.
	TimeLimit time.Duration
}

// DefaultConfig returns a Config with the stock detection constants.
// TimeLimit is zero and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		TickInterval:   TickInterval,
		SettleDelay:    SettleDelay,
		QuietPeriod:    QuietPeriod,
		BaselineWindow: BaselineWindow,
		PeakThreshold:  PeakThreshold,
		ResetThreshold: ResetThreshold,
		ResetDistance:  ResetDistance,
		Tolerance:      CalibrationTolerance,
	}
}
