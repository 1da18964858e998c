// Package gesture classifies per-frame hand shapes and debounces them
// into stable button presses through an explicit per-hand state machine.
package gesture

import (
	"math"

	"github.com/ayusman/handwing/internal/detector"
)

// Shape is a recognized hand shape. Shape names are also the binding
// keys used in the calibration profile.
type Shape string

const (
	ShapeNone     Shape = "none"
	ShapeFist     Shape = "fist"
	ShapePoint    Shape = "point"
	ShapePeace    Shape = "peace"
	ShapeThumbsUp Shape = "thumbs_up"
	ShapeOpenPalm Shape = "open_palm"
)

// Candidate is a momentary shape classification for one hand in one
// frame. It is consumed immediately by the state machine and never
// stored.
type Candidate struct {
	Shape      Shape   `json:"shape"`
	Confidence float64 `json:"confidence"`
}

// Classify derives a shape candidate from raw hand landmarks using
// finger extension: a finger counts as extended when its tip is above
// its PIP joint, the thumb when its tip is horizontally farther from the
// wrist than its IP joint. The candidate's confidence is the hand's
// detection score; the shape rules themselves are exact and mutually
// exclusive, so a hand yields at most one candidate per frame.
func Classify(lm *detector.HandLandmarks) Candidate {
	if lm == nil {
		return Candidate{Shape: ShapeNone}
	}

	thumb := thumbExtended(lm)
	index := fingerExtended(lm, detector.IndexTip, detector.IndexPIP)
	middle := fingerExtended(lm, detector.MiddleTip, detector.MiddlePIP)
	ring := fingerExtended(lm, detector.RingTip, detector.RingPIP)
	pinky := fingerExtended(lm, detector.PinkyTip, detector.PinkyPIP)

	extended := 0
	for _, up := range []bool{thumb, index, middle, ring, pinky} {
		if up {
			extended++
		}
	}

	shape := ShapeNone
	switch {
	case extended == 0:
		shape = ShapeFist
	case extended == 1 && index:
		shape = ShapePoint
	case extended == 2 && index && middle:
		shape = ShapePeace
	case extended == 1 && thumb:
		shape = ShapeThumbsUp
	case extended == 5:
		shape = ShapeOpenPalm
	}

	return Candidate{Shape: shape, Confidence: lm.Score}
}

func fingerExtended(lm *detector.HandLandmarks, tip, pip int) bool {
	return lm.Points[tip].Y < lm.Points[pip].Y
}

func thumbExtended(lm *detector.HandLandmarks) bool {
	wristX := lm.Points[detector.Wrist].X
	tip := math.Abs(lm.Points[detector.ThumbTip].X - wristX)
	ip := math.Abs(lm.Points[detector.ThumbIP].X - wristX)
	return tip > ip
}
