package controller

import (
	"math"

	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/track"
)

// MapAxes converts the filtered hand states into the four axis values.
// It is a pure function of its inputs.
//
// Each brake follows its own hand's horizontal pull: the left hand
// pulls its brake by moving right across its calibrated range, the
// right hand by moving left, so both brakes read zero with the hands
// at their calibrated rest positions and -127 at full pull. The speed
// bar follows the mean vertical position of whichever hands are
// tracked (a single hand suffices); the rotation axis follows the mean
// horizontal position of both hands, centered on the profile's
// rotation center with a ±90° span and wrapped modulo 360.
//
// An untracked hand contributes neutral: its brake reads zero, and the
// rotation axis falls back to its center unless both hands are
// tracked. An uncontrolled axis drifting away from neutral is worse
// than a frozen one.
func MapAxes(hands [track.NumSlots]track.FilteredHand, p *profile.Profile) Frame {
	f := NeutralFrame(p)
	left, right := hands[track.SlotLeft], hands[track.SlotRight]

	if left.Tracked {
		pull := scale(left.Position.X, p.Axes.LeftBrake.Range)
		f.LeftBrake = brakeValue(pull, p.Axes.LeftBrake.DeadZone)
	}
	if right.Tracked {
		pull := 1 - scale(right.Position.X, p.Axes.RightBrake.Range)
		f.RightBrake = brakeValue(pull, p.Axes.RightBrake.DeadZone)
	}

	if left.Tracked || right.Tracked {
		var sumY, n float64
		if left.Tracked {
			sumY += scale(left.Position.Y, p.Axes.SpeedBar.Range)
			n++
		}
		if right.Tracked {
			sumY += scale(right.Position.Y, p.Axes.SpeedBar.Range)
			n++
		}
		f.SpeedBar = bipolarValue(sumY/n, p.Axes.SpeedBar.DeadZone)
	}

	if left.Tracked && right.Tracked {
		meanX := (scale(left.Position.X, p.Axes.WeightShift.Range) +
			scale(right.Position.X, p.Axes.WeightShift.Range)) / 2
		f.Rotation = rotationValue(meanX, p.Axes.WeightShift.DeadZone, p.Axes.RotationCenter)
	}

	return f
}

// scale clamps a raw coordinate to the calibrated range and rescales it
// to [0,1].
func scale(v float64, r profile.AxisRange) float64 {
	if v <= r.Min {
		return 0
	}
	if v >= r.Max {
		return 1
	}
	return (v - r.Min) / r.Span()
}

// brakeValue maps a pull fraction in [0,1] onto [-127,0], snapping
// pulls within the dead-zone to exactly zero.
func brakeValue(pull, deadZone float64) int {
	if pull <= deadZone {
		return 0
	}
	return clampAxis(-int(math.Round(pull * 127)))
}

// bipolarValue maps a scaled position in [0,1] onto [-127,127] around
// the midpoint, snapping positions within the dead-zone of the
// midpoint to exactly zero.
func bipolarValue(scaled, deadZone float64) int {
	centered := scaled - 0.5
	if math.Abs(centered) <= deadZone {
		return 0
	}
	return clampAxis(int(math.Round(centered * 2 * 127)))
}

// rotationValue maps a scaled position in [0,1] onto a ±90° sweep
// around the rotation center, wrapped into [0,359].
func rotationValue(scaled, deadZone float64, center int) int {
	centered := scaled - 0.5
	if math.Abs(centered) <= deadZone {
		return center
	}
	deg := center + int(math.Round(centered*2*90))
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

func clampAxis(v int) int {
	if v < -127 {
		return -127
	}
	if v > 127 {
		return 127
	}
	return v
}
