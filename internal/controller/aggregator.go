package controller

import (
	"time"

	"github.com/ayusman/handwing/internal/profile"
)

// Aggregator decides which computed frames are forwarded to the output
// sink. It remembers the last forwarded frame and suppresses frames
// that differ from it by no more than the profile's epsilon on every
// axis with no button flips, except that a heartbeat re-emission fires
// once the quiescence interval elapses, so the sink can always tell a
// static hand from a dead pipeline.
//
// Owned by the pipeline goroutine; no locking.
type Aggregator struct {
	last     Frame
	hasLast  bool
	lastEmit time.Time
}

// NewAggregator creates an aggregator with no emission history: the
// first pushed frame is always forwarded.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Reset clears the emission history, as on shutdown or sink
// reacquisition.
func (a *Aggregator) Reset() {
	*a = Aggregator{}
}

// Last returns the last forwarded frame and whether one exists.
func (a *Aggregator) Last() (Frame, bool) {
	return a.last, a.hasLast
}

// Push offers a computed frame to the aggregator. It returns true when
// the frame must be forwarded to the sink, and records it as the last
// emission. now must be monotonically non-decreasing across calls.
func (a *Aggregator) Push(f Frame, now time.Time, p *profile.Profile) bool {
	if a.hasLast && !a.changed(f, p) && now.Sub(a.lastEmit) < p.Heartbeat {
		return false
	}
	a.last = f.clone()
	a.hasLast = true
	a.lastEmit = now
	return true
}

func (a *Aggregator) changed(f Frame, p *profile.Profile) bool {
	eps := p.EmitEpsilon
	if absDiff(f.LeftBrake, a.last.LeftBrake) > eps ||
		absDiff(f.RightBrake, a.last.RightBrake) > eps ||
		absDiff(f.SpeedBar, a.last.SpeedBar) > eps ||
		rotationDiff(f.Rotation, a.last.Rotation) > eps {
		return true
	}
	if len(f.Buttons) != len(a.last.Buttons) {
		return true
	}
	for i := range f.Buttons {
		if f.Buttons[i] != a.last.Buttons[i] {
			return true
		}
	}
	return false
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// rotationDiff is the shortest angular distance between two headings in
// [0,359]: 359 and 0 are one degree apart, not 359.
func rotationDiff(a, b int) int {
	d := absDiff(a, b) % 360
	if d > 180 {
		d = 360 - d
	}
	return d
}
