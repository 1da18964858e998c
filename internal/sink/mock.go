package sink

import (
	"sync"

	"github.com/ayusman/handwing/internal/controller"
)

// MockSink records everything applied to it, for tests.
type MockSink struct {
	mu       sync.Mutex
	frames   []controller.Frame
	releases int
	closed   bool
	err      error
}

// NewMockSink creates an empty MockSink.
func NewMockSink() *MockSink { return &MockSink{} }

// SetError makes every subsequent Apply and ReleaseAll fail with err
// until cleared with SetError(nil).
func (m *MockSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Apply records the frame, or fails with the configured error.
func (m *MockSink) Apply(frame controller.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.frames = append(m.frames, frame)
	return nil
}

// ReleaseAll counts the release, or fails with the configured error.
func (m *MockSink) ReleaseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.releases++
	return nil
}

// Close marks the sink closed.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Frames returns a copy of the applied frames in order.
func (m *MockSink) Frames() []controller.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]controller.Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

// Releases returns how many times ReleaseAll succeeded.
func (m *MockSink) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
