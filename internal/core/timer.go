package core

import "time"

// maxCatchUp bounds how many ticks a stalled caller may owe.
const maxCatchUp = 8

// FixedStep paces simulation ticks at a steady ticks-per-second rate. A rate
// of zero or less disables pacing.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	return fs
}

// SetTPS changes the tick rate.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		f.step = 0
		return
	}
	f.step = time.Second / time.Duration(tps)
}

// Restart forgets elapsed time so the next Due call starts a fresh schedule.
func (f *FixedStep) Restart() {
	f.accumulator = 0
	f.last = time.Time{}
}

// Unpaced reports whether every call should produce a tick.
func (f *FixedStep) Unpaced() bool { return f.step == 0 }

// Due returns how many ticks have become due at now since the previous call.
// The first call always yields one tick.
func (f *FixedStep) Due(now time.Time) int {
	if f.step == 0 {
		return 1
	}
	if f.last.IsZero() {
		f.last = now
		return 1
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := int(f.accumulator / f.step)
	if n > maxCatchUp {
		n = maxCatchUp
		f.accumulator = 0
		return n
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}

// Wait returns the time left until the next tick is due.
func (f *FixedStep) Wait() time.Duration {
	if f.step == 0 {
		return 0
	}
	return f.step - f.accumulator
}
