package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It can return a fixed result or play back a scripted sequence of
// per-frame results. It is safe to reconfigure from a test goroutine
// while a running pipeline polls Detect.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect when the
// scripted queue is empty.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// QueueFrames appends per-frame results to the scripted sequence.
// Each call to Detect consumes one entry until the queue is empty.
func (m *MockDetector) QueueFrames(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// Detect returns the next scripted result, the fixed hands, or the
// configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Shape describes which digits of a synthetic hand are extended.
type Shape struct {
	Thumb  bool
	Index  bool
	Middle bool
	Ring   bool
	Pinky  bool
}

// Common shapes used across tests.
var (
	ShapeOpenPalm = Shape{Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true}
	ShapeFist     = Shape{}
	ShapePoint    = Shape{Index: true}
	ShapePeace    = Shape{Index: true, Middle: true}
	ShapeThumbsUp = Shape{Thumb: true}
)

// HandAt builds a synthetic HandLandmarks with the given shape whose
// landmark centroid is exactly at (cx, cy). The geometry is coarse but
// satisfies the finger-extension rules the shape classifier relies on:
// an extended finger's tip is above its PIP joint, and an extended
// thumb's tip is horizontally farther from the wrist than its IP joint.
func HandAt(cx, cy float64, handedness string, score float64, shape Shape) HandLandmarks {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}

	// Thumb points toward the body midline: right for a left hand in a
	// mirrored view, left for a right hand.
	side := 1.0
	if handedness == "Right" {
		side = -1.0
	}

	lm.Points[Wrist] = Point3D{X: 0, Y: 0.12}

	thumbX := 0.05
	if shape.Thumb {
		thumbX = 0.15
	}
	lm.Points[ThumbCMC] = Point3D{X: side * 0.03, Y: 0.09}
	lm.Points[ThumbMCP] = Point3D{X: side * 0.05, Y: 0.06}
	lm.Points[ThumbIP] = Point3D{X: side * 0.08, Y: 0.04}
	lm.Points[ThumbTip] = Point3D{X: side * thumbX, Y: 0.03}

	fingers := []struct {
		mcp, pip, dip, tip int
		x                  float64
		extended           bool
	}{
		{IndexMCP, IndexPIP, IndexDIP, IndexTip, side * 0.04, shape.Index},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, side * 0.01, shape.Middle},
		{RingMCP, RingPIP, RingDIP, RingTip, side * -0.02, shape.Ring},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, side * -0.05, shape.Pinky},
	}

	for _, f := range fingers {
		lm.Points[f.mcp] = Point3D{X: f.x, Y: 0.02}
		lm.Points[f.pip] = Point3D{X: f.x, Y: -0.02}
		if f.extended {
			lm.Points[f.dip] = Point3D{X: f.x, Y: -0.08}
			lm.Points[f.tip] = Point3D{X: f.x, Y: -0.14}
		} else {
			// Curled: tip folds back below the PIP joint.
			lm.Points[f.dip] = Point3D{X: f.x, Y: 0.0}
			lm.Points[f.tip] = Point3D{X: f.x, Y: 0.03}
		}
	}

	// Translate so the centroid lands exactly on (cx, cy); tests rely on
	// Center() matching the requested position.
	c := lm.Center()
	for i := 0; i < NumLandmarks; i++ {
		lm.Points[i].X += cx - c.X
		lm.Points[i].Y += cy - c.Y
	}

	return lm
}

// OpenPalmLandmarks returns an open-palm hand centered in the frame.
func OpenPalmLandmarks(handedness string) HandLandmarks {
	return HandAt(0.5, 0.5, handedness, 0.95, ShapeOpenPalm)
}

// FistLandmarks returns a fist centered in the frame.
func FistLandmarks(handedness string) HandLandmarks {
	return HandAt(0.5, 0.5, handedness, 0.95, ShapeFist)
}
