package meter

import (
	"context"
	"math"
	"sync"
	"time"
)

// Class labels the intensity bucket of a detected hit.
type Class int

const (
	ClassSoft Class = iota
	ClassHard
)

func (c Class) String() string {
	if c == ClassHard {
		return "hard"
	}
	return "soft"
}

// Hit is one classified burst event.
type Hit struct {
	Class     Class
	Level     float64       // loudness at detection, dB
	Threshold float64       // hard/soft boundary in effect, dB
	Hard      int           // running total including this hit
	Soft      int           // running total including this hit
	Remaining time.Duration // session time left when the hit registered
}

// Summary describes a finished or aborted session.
type Summary struct {
	Hard         int
	Soft         int
	Elapsed      time.Duration // measured from timer start; zero if never calibrated
	Limit        time.Duration
	Baseline     float64 // ambient estimate at session end, dB
	ReferenceMax float64 // loudest calibration strike, dB (-Inf when uncalibrated)
	Threshold    float64 // final hard/soft boundary, dB (valid when Calibrated)
	SessionPeak  float64 // loudest finite loudness seen at any point, dB
	Calibrated   bool
	Aborted      bool // interrupted before the deadline
}

// Total returns the combined hit count.
func (s Summary) Total() int {
	return s.Hard + s.Soft
}

// Sink receives session events. Run invokes it from the control-loop
// goroutine only, never while holding the state lock.
type Sink interface {
	CalibrationStarted()
	CalibrationFinished(referenceMax float64)
	Hit(h Hit)
	Finished(s Summary)
}

// TickResult reports what one classifier tick produced. Zero value means
// the tick did nothing observable.
type TickResult struct {
	CalibrationStarted  bool
	CalibrationFinished bool
	ReferenceMax        float64 // valid when CalibrationFinished
	Hit                 *Hit
	Summary             *Summary // non-nil exactly when Done
	Done                bool
}

// Monitor owns all state shared between the capture callback and the
// control loop: the latest loudness, the rolling baseline, the calibration
// machine, the peak tracker, counters and timers. A single mutex guards
// everything; Ingest runs on the capture side, Tick on the control side,
// and both keep their critical sections free of blocking work.
type Monitor struct {
	mu  sync.Mutex
	cfg Config

	level    float64 // latest block loudness, dB
	base     baseline
	peakSeen float64 // loudest finite level over the whole session

	cal  calibration
	peak peakTracker

	startedAt    time.Time
	timerStarted time.Time
	hard, soft   int
	done         bool
}

// NewMonitor builds a Monitor for one session.
func NewMonitor(cfg Config) *Monitor {
	return &Monitor{
		cfg:      cfg,
		level:    math.Inf(-1),
		peakSeen: math.Inf(-1),
		base:     baseline{window: cfg.BaselineWindow},
		cal:      newCalibration(),
	}
}

// Start marks the beginning of the settle delay. Run calls it if the
// caller has not; calling it twice keeps the first timestamp.
func (m *Monitor) Start(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startedAt.IsZero() {
		m.startedAt = now
	}
}

// Ingest consumes one block of normalized samples from the capture
// callback, at whatever cadence the backend delivers them. Empty blocks
// are dropped. A silent block stores -Inf as the current loudness but is
// not folded into the baseline.
func (m *Monitor) Ingest(block []float64) {
	if len(block) == 0 {
		return
	}
	level := blockLevel(block)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
	if math.IsInf(level, -1) || math.IsNaN(level) {
		return
	}
	if level > m.peakSeen {
		m.peakSeen = level
	}
	m.base.fold(level)
}

// Tick runs one classifier evaluation at the given time. All state
// changes happen under the lock; the returned result carries everything a
// sink needs so the caller can report after unlocking.
func (m *Monitor) Tick(now time.Time) TickResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done || now.Sub(m.startedAt) <= m.cfg.SettleDelay {
		return TickResult{}
	}

	step := m.cal.step(now, m.level, m.cfg.QuietPeriod)
	res := TickResult{
		CalibrationStarted:  step.began,
		CalibrationFinished: step.finished,
	}
	if step.finished {
		m.timerStarted = now
		res.ReferenceMax = m.cal.max
	}
	if !step.calibrated {
		return res
	}

	remaining := m.cfg.TimeLimit - now.Sub(m.timerStarted)
	if remaining <= 0 {
		m.done = true
		s := m.summaryLocked(now, false)
		res.Summary = &s
		res.Done = true
		return res
	}

	threshold := hardThreshold(m.cal.max, m.base.value, m.cfg.Tolerance)

	entry := m.base.value + m.cfg.PeakThreshold
	reset := entry - m.cfg.ResetThreshold
	if m.peak.observe(m.level, entry, reset, m.cfg.ResetDistance) {
		h := Hit{
			Class:     classify(m.level, threshold),
			Level:     m.level,
			Threshold: threshold,
			Remaining: remaining,
		}
		if h.Class == ClassHard {
			m.hard++
		} else {
			m.soft++
		}
		h.Hard = m.hard
		h.Soft = m.soft
		res.Hit = &h
	}
	return res
}

// hardThreshold places the hard/soft boundary inside the calibrated
// range: only the top (1 - tolerance) slice above it classifies hard.
func hardThreshold(referenceMax, baseline, tolerance float64) float64 {
	return referenceMax - (referenceMax-baseline)*(1-tolerance)
}

// classify buckets a registered burst: a level at or above the boundary
// counts hard, strictly below counts soft.
func classify(level, threshold float64) Class {
	if level >= threshold {
		return ClassHard
	}
	return ClassSoft
}

// Run drives the classifier at the configured tick rate until the
// deadline fires or ctx is cancelled, reporting events to sink between
// ticks. It returns the final summary; the error is non-nil only for
// cancellation.
func (m *Monitor) Run(ctx context.Context, sink Sink) (Summary, error) {
	m.Start(time.Now())

	ticker := time.NewTicker(m.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			m.done = true
			s := m.summaryLocked(time.Now(), true)
			m.mu.Unlock()
			sink.Finished(s)
			return s, ctx.Err()

		case now := <-ticker.C:
			res := m.Tick(now)
			report(res, sink)
			if res.Done {
				return *res.Summary, nil
			}
		}
	}
}

// report forwards a tick's events to the sink, in occurrence order.
func report(res TickResult, sink Sink) {
	if res.CalibrationStarted {
		sink.CalibrationStarted()
	}
	if res.CalibrationFinished {
		sink.CalibrationFinished(res.ReferenceMax)
	}
	if res.Hit != nil {
		sink.Hit(*res.Hit)
	}
	if res.Summary != nil {
		sink.Finished(*res.Summary)
	}
}

func (m *Monitor) summaryLocked(now time.Time, aborted bool) Summary {
	s := Summary{
		Hard:         m.hard,
		Soft:         m.soft,
		Limit:        m.cfg.TimeLimit,
		Baseline:     m.base.value,
		ReferenceMax: m.cal.max,
		SessionPeak:  m.peakSeen,
		Calibrated:   m.cal.phase == calDone,
		Aborted:      aborted,
	}
	if s.Calibrated {
		s.Elapsed = now.Sub(m.timerStarted)
		if s.Elapsed > m.cfg.TimeLimit {
			s.Elapsed = m.cfg.TimeLimit
		}
		s.Threshold = hardThreshold(m.cal.max, m.base.value, m.cfg.Tolerance)
	}
	return s
}
