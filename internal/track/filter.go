package track

import (
	"math"
	"time"

	"github.com/ayusman/handwing/internal/profile"
)

// Filter maintains the smoothed state of both hand slots across frames.
// It is the only stateful per-hand entity in the pipeline and is owned
// exclusively by the pipeline goroutine; no locking.
//
// While a hand is detected its position follows an exponential moving
// average whose blend factor is derived from the profile's time constant
// and the measured inter-frame interval, so the response is independent
// of the capture frame rate. On a missed detection the filter
// dead-reckons from the last known velocity, decaying it linearly to
// zero across the grace window, so single-frame dropouts do not cause
// control jumps. Once the grace window is exceeded the slot is fully
// absent until a new detection re-seeds it.
type Filter struct {
	slots    [NumSlots]slotState
	lastStep time.Time
}

type slotState struct {
	seeded bool
	pos    Point
	vel    Point
	conf   float64
	age    int
}

// NewFilter creates a Filter with both slots absent.
func NewFilter() *Filter {
	return &Filter{}
}

// Reset clears all slot state, as on shutdown or recalibration.
func (f *Filter) Reset() {
	*f = Filter{}
}

// Step advances the filter by one frame and returns the filtered state
// of both slots. now must be monotonically non-decreasing across calls.
func (f *Filter) Step(states [NumSlots]HandState, now time.Time, p *profile.Profile) [NumSlots]FilteredHand {
	dt := 0.0
	if !f.lastStep.IsZero() {
		dt = now.Sub(f.lastStep).Seconds()
	}
	f.lastStep = now

	var out [NumSlots]FilteredHand
	for slot := Slot(0); slot < NumSlots; slot++ {
		out[slot] = f.slots[slot].step(states[slot], dt, p)
	}
	return out
}

func (s *slotState) step(raw HandState, dt float64, p *profile.Profile) FilteredHand {
	switch {
	case raw.Present && (!s.seeded || s.age > p.GraceFrames):
		// A detection on an unseeded or fully absent slot seeds it
		// directly; smoothing in from a stale origin would sweep the
		// axes through bogus values.
		s.seeded = true
		s.pos = raw.Position
		s.vel = Point{}
		s.conf = raw.Confidence
		s.age = 0

	case raw.Present:
		alpha := 1 - math.Exp(-dt/p.SmoothingTimeConstant.Seconds())
		prev := s.pos
		s.pos.X = alpha*raw.Position.X + (1-alpha)*prev.X
		s.pos.Y = alpha*raw.Position.Y + (1-alpha)*prev.Y
		if dt > 0 {
			s.vel.X = alpha*((s.pos.X-prev.X)/dt) + (1-alpha)*s.vel.X
			s.vel.Y = alpha*((s.pos.Y-prev.Y)/dt) + (1-alpha)*s.vel.Y
		}
		s.conf = raw.Confidence
		s.age = 0

	case s.seeded:
		s.age++
		if s.age <= p.GraceFrames && p.GraceFrames > 0 {
			// Dead-reckon with linearly decayed velocity; at the end of
			// the grace window the prediction has come to rest.
			decay := 1 - float64(s.age)/float64(p.GraceFrames)
			if decay < 0 {
				decay = 0
			}
			s.pos.X += s.vel.X * dt * decay
			s.pos.Y += s.vel.Y * dt * decay
		}
	}

	return FilteredHand{
		Position:   s.pos,
		Velocity:   s.vel,
		Confidence: s.conf,
		Age:        s.age,
		Tracked:    s.seeded && s.age <= p.GraceFrames,
	}
}
