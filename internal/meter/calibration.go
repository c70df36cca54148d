package meter

import (
	"math"
	"time"
)

// calibrationPhase tracks progress through the opening reference phase.
type calibrationPhase int

const (
	calWaiting   calibrationPhase = iota // no classifier tick observed yet
	calListening                         // tracking the loudest strike
	calDone                              // reference maximum locked in
)

// calibration learns the session's reference maximum. The operator strikes
// a few times at the start; once a full quiet period passes with no new
// maximum, the loudest observation becomes the reference and the session
// timer starts. Transitions are one-way: Waiting → Listening → Done.
type calibration struct {
	phase     calibrationPhase
	max       float64   // loudest level seen while listening
	lastMaxAt time.Time // when max last increased
}

func newCalibration() calibration {
	return calibration{max: math.Inf(-1)}
}

// stepResult reports what one calibration step did.
type stepResult struct {
	began      bool // first tick: now listening for the reference strike
	finished   bool // quiet period expired on this tick
	calibrated bool // detection may proceed this tick
}

// step advances the machine by one classifier tick. The quiet-period check
// runs before the new-maximum check, and only a strictly greater level
// moves the maximum, so a late tie neither extends listening nor changes
// the reference.
func (c *calibration) step(now time.Time, level float64, quiet time.Duration) stepResult {
	switch c.phase {
	case calWaiting:
		c.phase = calListening
		c.lastMaxAt = now
		return stepResult{began: true}

	case calListening:
		if now.Sub(c.lastMaxAt) > quiet {
			c.phase = calDone
			return stepResult{finished: true, calibrated: true}
		}
		if level > c.max {
			c.max = level
			c.lastMaxAt = now
		}
		return stepResult{}

	default: // calDone
		return stepResult{calibrated: true}
	}
}
