// Package track turns raw per-frame hand landmarks into stable per-hand
// state: the normalizer resolves handedness and produces a HandState per
// slot, and the temporal filter smooths positions across frames and
// bridges short tracker dropouts.
package track

import (
	"github.com/ayusman/handwing/internal/detector"
)

// Slot identifies one of the two tracked hand slots.
type Slot int

const (
	SlotLeft Slot = iota
	SlotRight
	NumSlots
)

// String returns the tracker-style label for the slot.
func (s Slot) String() string {
	switch s {
	case SlotLeft:
		return "Left"
	case SlotRight:
		return "Right"
	}
	return "Unknown"
}

// Point is a normalized 2D frame coordinate, origin top-left, [0,1]x[0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandState is the per-hand summary derived from one frame's landmarks.
// It is created by the normalizer and never mutated afterwards; each
// frame produces fresh values.
type HandState struct {
	Position   Point   `json:"position"`
	Confidence float64 `json:"confidence"`
	Present    bool    `json:"present"`

	// Landmarks are the raw points this state was derived from, kept for
	// shape classification. Nil when the slot had no detection at all.
	Landmarks *detector.HandLandmarks `json:"-"`
}

// FilteredHand is the smoothed, dropout-bridged state of one hand slot.
type FilteredHand struct {
	Position Point `json:"position"`

	// Velocity is the smoothed position delta in normalized units per
	// second.
	Velocity Point `json:"velocity"`

	Confidence float64 `json:"confidence"`

	// Age is the number of consecutive frames since the last genuine
	// detection; 0 while the hand is being seen.
	Age int `json:"age"`

	// Tracked is false when the slot has never been seen or its age has
	// exceeded the grace window; axis contributions then freeze at
	// neutral and gestures reset.
	Tracked bool `json:"tracked"`
}
