package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand tracking implementations.
// The tracker is an external collaborator: the pipeline only sees the
// landmark coordinates and confidence it reports.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks,
	// at most one entry per tracked hand. Returns an empty slice if no
	// hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
// The detection threshold matches the tracker settings the controller
// was tuned against (0.7 detection, 0.5 tracking).
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}
