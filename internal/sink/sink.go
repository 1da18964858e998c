// Package sink delivers controller frames to the virtual HID layer.
//
// The pipeline treats the sink as a best-effort collaborator: a frame
// that cannot be delivered is dropped and logged, never allowed to
// stall or reset the tracking pipeline, because the device may come
// back on a later frame.
package sink

import (
	"errors"

	"github.com/ayusman/handwing/internal/controller"
)

// ErrUnavailable is returned when the underlying virtual device is not
// ready. Callers keep computing frames and retry on the next cycle.
var ErrUnavailable = errors.New("output sink unavailable")

// Sink is the contract with the HID emulation layer.
type Sink interface {
	// Apply forwards one controller frame to the device.
	Apply(frame controller.Frame) error

	// ReleaseAll forces every axis to neutral and releases every
	// button, used on shutdown and on device reacquisition so the
	// emulated controller never sticks in its last active state.
	ReleaseAll() error

	// Close releases the underlying device or connection.
	Close() error
}
