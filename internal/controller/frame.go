// Package controller turns filtered hand state and confirmed gestures
// into virtual controller frames, and decides when a frame is worth
// forwarding to the output sink.
package controller

import (
	"github.com/ayusman/handwing/internal/gesture"
	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/track"
)

// Frame is one atomic controller state: three signed axes in
// [-127,127], a rotation axis in [0,359] and the button states. It is
// an immutable value; the pipeline builds a fresh one every cycle.
type Frame struct {
	LeftBrake  int    `json:"left_brake"`
	RightBrake int    `json:"right_brake"`
	SpeedBar   int    `json:"speed_bar"`
	Rotation   int    `json:"rotation"`
	Buttons    []bool `json:"buttons"`
}

// NeutralFrame returns the all-neutral frame for the profile: zero
// axes, rotation at the configured center, all buttons released.
func NeutralFrame(p *profile.Profile) Frame {
	return Frame{
		Rotation: p.Axes.RotationCenter,
		Buttons:  make([]bool, p.Buttons),
	}
}

// Equal reports whether two frames are identical in every axis and
// button.
func (f Frame) Equal(other Frame) bool {
	if f.LeftBrake != other.LeftBrake ||
		f.RightBrake != other.RightBrake ||
		f.SpeedBar != other.SpeedBar ||
		f.Rotation != other.Rotation ||
		len(f.Buttons) != len(other.Buttons) {
		return false
	}
	for i := range f.Buttons {
		if f.Buttons[i] != other.Buttons[i] {
			return false
		}
	}
	return true
}

// clone returns a copy with its own button slice, so a retained frame
// cannot alias a caller's buffer.
func (f Frame) clone() Frame {
	c := f
	c.Buttons = make([]bool, len(f.Buttons))
	copy(c.Buttons, f.Buttons)
	return c
}

// Buttons resolves the confirmed shape of each hand into button states
// through the profile's bindings. Multiple bindings may press the same
// button; a button is pressed when any of its bindings matches.
func Buttons(confirmed [track.NumSlots]gesture.Shape, p *profile.Profile) []bool {
	pressed := make([]bool, p.Buttons)
	for _, b := range p.Bindings {
		slot := track.SlotLeft
		if b.Hand == profile.HandRight {
			slot = track.SlotRight
		}
		if b.Button >= 0 && b.Button < len(pressed) &&
			string(confirmed[slot]) == b.Gesture {
			pressed[b.Button] = true
		}
	}
	return pressed
}
