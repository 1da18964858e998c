package sink

import (
	"log"

	"github.com/ayusman/handwing/internal/controller"
)

// LogSink prints frames instead of delivering them. Useful for running
// the tracker without a feeder attached.
type LogSink struct{}

// NewLogSink creates a LogSink.
func NewLogSink() *LogSink { return &LogSink{} }

// Apply logs the frame.
func (LogSink) Apply(frame controller.Frame) error {
	log.Printf("sink: frame brakes=%d/%d speed=%d rotation=%d buttons=%v",
		frame.LeftBrake, frame.RightBrake, frame.SpeedBar, frame.Rotation, frame.Buttons)
	return nil
}

// ReleaseAll logs the release command.
func (LogSink) ReleaseAll() error {
	log.Print("sink: release all")
	return nil
}

// Close is a no-op.
func (LogSink) Close() error { return nil }
