package core

import "time"

// FixedStep paces simulation updates inside a frame loop. It emits at most one
// step per call, so a slow frame never triggers a burst of catch-up steps.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep that fires once per interval.
func NewFixedStep(interval time.Duration) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetInterval(interval)
	fs.accumulator = fs.step
	return fs
}

// SetInterval changes the step period. Non-positive values fall back to one
// second.
func (f *FixedStep) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	f.step = interval
	if f.accumulator > f.step {
		f.accumulator = f.step
	}
}

// Interval returns the configured step period.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Rearm restarts the measurement so the next step is a full interval away.
func (f *FixedStep) Rearm() {
	f.accumulator = 0
	f.last = f.now()
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator < f.step {
		return false
	}
	f.accumulator -= f.step
	if f.accumulator > f.step {
		f.accumulator = f.step
	}
	return true
}
