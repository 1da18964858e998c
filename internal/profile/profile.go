// Package profile provides the per-user calibration profile read by the
// Handwing controller pipeline: axis input ranges, dead-zones, smoothing
// and gesture debounce tunables, and gesture-to-button bindings.
package profile

import (
	"errors"
	"fmt"
	"time"
)

// Hand labels used in button bindings. They match the tracker's
// handedness labels.
const (
	HandLeft  = "Left"
	HandRight = "Right"
)

// ErrInvalid is returned when a profile violates its invariants.
// A profile that fails validation at load time must not be used; callers
// fall back to Default().
var ErrInvalid = errors.New("invalid calibration profile")

// AxisRange is the observed input range mapped onto an axis.
// Invariant: Min < Max.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r AxisRange) Span() float64 { return r.Max - r.Min }

// AxisConfig configures one controller axis: the calibrated input range
// and the dead-zone radius (in scaled [0,1] units) around the neutral
// point within which output snaps exactly to neutral.
type AxisConfig struct {
	Range    AxisRange `json:"range"`
	DeadZone float64   `json:"dead_zone"`
}

// Axes holds the configuration of the four controller axes.
type Axes struct {
	LeftBrake   AxisConfig `json:"left_brake"`
	RightBrake  AxisConfig `json:"right_brake"`
	SpeedBar    AxisConfig `json:"speed_bar"`
	WeightShift AxisConfig `json:"weight_shift"`

	// RotationCenter is the weight-shift rotation axis neutral in
	// degrees [0,359].
	RotationCenter int `json:"rotation_center"`
}

// ButtonBinding maps a confirmed gesture on one hand to a button index.
type ButtonBinding struct {
	Hand    string `json:"hand"`    // HandLeft or HandRight
	Gesture string `json:"gesture"` // shape name, see internal/gesture
	Button  int    `json:"button"`  // 0-based button index
}

// Profile is the per-user calibration profile. It is an immutable value
// during normal operation: recalibration replaces the whole profile via
// Holder.Swap, never mutates it in place.
type Profile struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`

	// MirrorMode indicates the camera image is horizontally mirrored
	// (selfie view). It affects handedness tie-breaking and the preview.
	MirrorMode bool `json:"mirror_mode"`

	// MinDetection is the minimum per-hand detection confidence below
	// which a hand is treated as a missed detection for that frame.
	MinDetection float64 `json:"min_detection"`

	// SmoothingTimeConstant is the exponential smoothing time constant.
	// The per-frame blend factor is derived from it and the measured
	// inter-frame interval, so smoothing is frame-rate independent.
	SmoothingTimeConstant time.Duration `json:"smoothing_time_constant"`

	// GraceFrames is the dead-reckoning window: how many consecutive
	// missed detections are bridged by velocity extrapolation before a
	// hand slot is declared fully absent.
	GraceFrames int `json:"grace_frames"`

	Axes Axes `json:"axes"`

	// GestureThreshold is the minimum candidate confidence for the
	// gesture state machine to consider a shape.
	GestureThreshold float64 `json:"gesture_threshold"`

	// HoldFrames is how many consecutive frames a candidate must persist
	// before it is confirmed as a button press.
	HoldFrames int `json:"hold_frames"`

	// ReleaseGraceFrames is how many consecutive non-matching frames a
	// confirmed gesture survives before its button is released.
	ReleaseGraceFrames int `json:"release_grace_frames"`

	Bindings []ButtonBinding `json:"bindings"`

	// Buttons is the number of buttons on the emitted controller frame.
	Buttons int `json:"buttons"`

	// EmitEpsilon is the minimum per-axis change, in axis units, for a
	// frame to be forwarded to the sink outside of heartbeats.
	EmitEpsilon int `json:"emit_epsilon"`

	// Heartbeat is the maximum quiescence interval: the current frame is
	// re-emitted after this much time even when unchanged.
	Heartbeat time.Duration `json:"heartbeat"`
}

// MinButtons is the smallest button count the output sink contract
// supports.
const MinButtons = 4

// Default returns the built-in safe profile used when no stored profile
// exists or a stored profile fails validation.
func Default() *Profile {
	return &Profile{
		Name:                  "default",
		MirrorMode:            true,
		MinDetection:          0.7,
		SmoothingTimeConstant: 150 * time.Millisecond,
		GraceFrames:           5,
		Axes: Axes{
			LeftBrake:      AxisConfig{Range: AxisRange{Min: 0, Max: 1}, DeadZone: 0.05},
			RightBrake:     AxisConfig{Range: AxisRange{Min: 0, Max: 1}, DeadZone: 0.05},
			SpeedBar:       AxisConfig{Range: AxisRange{Min: 0, Max: 1}, DeadZone: 0.05},
			WeightShift:    AxisConfig{Range: AxisRange{Min: 0, Max: 1}, DeadZone: 0.05},
			RotationCenter: 180,
		},
		GestureThreshold:   0.6,
		HoldFrames:         5,
		ReleaseGraceFrames: 3,
		Bindings: []ButtonBinding{
			{Hand: HandLeft, Gesture: "fist", Button: 0},
			{Hand: HandLeft, Gesture: "point", Button: 1},
			{Hand: HandLeft, Gesture: "peace", Button: 2},
			{Hand: HandLeft, Gesture: "thumbs_up", Button: 3},
			{Hand: HandRight, Gesture: "fist", Button: 2},
			{Hand: HandRight, Gesture: "point", Button: 3},
		},
		Buttons:     4,
		EmitEpsilon: 1,
		Heartbeat:   500 * time.Millisecond,
	}
}

// Validate checks the profile invariants. A non-nil error wraps
// ErrInvalid and names the first violated constraint.
func (p *Profile) Validate() error {
	axes := []struct {
		name string
		cfg  AxisConfig
	}{
		{"left_brake", p.Axes.LeftBrake},
		{"right_brake", p.Axes.RightBrake},
		{"speed_bar", p.Axes.SpeedBar},
		{"weight_shift", p.Axes.WeightShift},
	}

	for _, a := range axes {
		if a.cfg.Range.Min >= a.cfg.Range.Max {
			return fmt.Errorf("%w: axis %s range min %f >= max %f",
				ErrInvalid, a.name, a.cfg.Range.Min, a.cfg.Range.Max)
		}
		if a.cfg.DeadZone < 0 || a.cfg.DeadZone >= 0.5 {
			return fmt.Errorf("%w: axis %s dead-zone %f outside [0, 0.5)",
				ErrInvalid, a.name, a.cfg.DeadZone)
		}
	}

	if p.Axes.RotationCenter < 0 || p.Axes.RotationCenter > 359 {
		return fmt.Errorf("%w: rotation center %d outside [0,359]", ErrInvalid, p.Axes.RotationCenter)
	}
	if p.MinDetection < 0 || p.MinDetection > 1 {
		return fmt.Errorf("%w: min detection %f outside [0,1]", ErrInvalid, p.MinDetection)
	}
	if p.GestureThreshold < 0 || p.GestureThreshold > 1 {
		return fmt.Errorf("%w: gesture threshold %f outside [0,1]", ErrInvalid, p.GestureThreshold)
	}
	if p.SmoothingTimeConstant <= 0 {
		return fmt.Errorf("%w: smoothing time constant %v not positive", ErrInvalid, p.SmoothingTimeConstant)
	}
	if p.GraceFrames < 0 {
		return fmt.Errorf("%w: grace frames %d negative", ErrInvalid, p.GraceFrames)
	}
	if p.HoldFrames < 0 {
		return fmt.Errorf("%w: hold frames %d negative", ErrInvalid, p.HoldFrames)
	}
	if p.ReleaseGraceFrames < 0 {
		return fmt.Errorf("%w: release grace frames %d negative", ErrInvalid, p.ReleaseGraceFrames)
	}
	if p.Buttons < MinButtons {
		return fmt.Errorf("%w: button count %d below minimum %d", ErrInvalid, p.Buttons, MinButtons)
	}
	if p.EmitEpsilon < 0 {
		return fmt.Errorf("%w: emit epsilon %d negative", ErrInvalid, p.EmitEpsilon)
	}
	if p.Heartbeat <= 0 {
		return fmt.Errorf("%w: heartbeat %v not positive", ErrInvalid, p.Heartbeat)
	}

	for _, b := range p.Bindings {
		if b.Hand != HandLeft && b.Hand != HandRight {
			return fmt.Errorf("%w: binding hand %q", ErrInvalid, b.Hand)
		}
		if b.Button < 0 || b.Button >= p.Buttons {
			return fmt.Errorf("%w: binding button %d outside [0,%d)", ErrInvalid, b.Button, p.Buttons)
		}
		if b.Gesture == "" {
			return fmt.Errorf("%w: binding with empty gesture", ErrInvalid)
		}
	}

	return nil
}

// Clone returns a deep copy of the profile. Recalibration edits the copy
// and swaps it in whole.
func (p *Profile) Clone() *Profile {
	clone := *p
	clone.Bindings = make([]ButtonBinding, len(p.Bindings))
	copy(clone.Bindings, p.Bindings)
	return &clone
}
