// Package detector provides the hand tracker collaborator interface and
// landmark types for the Handwing controller pipeline.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a single landmark coordinate. X and Y are normalized
// to the frame ([0,1], origin top-left); Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks reported by the tracker
// for one hand in one frame, plus the tracker's handedness label and
// per-hand detection confidence. Values are immutable once received.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left", "Right" or ""
	Score      float64               `json:"score"`      // detection confidence [0,1]
}

// Center returns the mean position of all landmarks. The pipeline tracks
// the landmark centroid, not the wrist, so finger movement does not bias
// the hand position toward a single joint.
func (h *HandLandmarks) Center() Point3D {
	var cx, cy, cz float64
	for i := 0; i < NumLandmarks; i++ {
		cx += h.Points[i].X
		cy += h.Points[i].Y
		cz += h.Points[i].Z
	}
	n := float64(NumLandmarks)
	return Point3D{X: cx / n, Y: cy / n, Z: cz / n}
}
