// Package capture provides video frame acquisition using GoCV (OpenCV).
package capture

import (
	"errors"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings. 640x480 keeps tracker latency low; the
// pipeline raises FPS only while hands are active.
const (
	DefaultIdleFPS = 5
	DefaultWidth   = 640
	DefaultHeight  = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Source identifies a video source: a local webcam device index ("0",
// "1", ...) or a network stream URL such as an IP webcam
// ("http://192.168.1.100:8080/video").
type Source struct {
	Name string
	Spec string
}

// DefaultSources lists the sources tried in order at startup.
func DefaultSources() []Source {
	return []Source{
		{Name: "Default Camera (0)", Spec: "0"},
		{Name: "Camera 1", Spec: "1"},
	}
}

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// cameraImpl manages video capture from a device or stream using GoCV.
type cameraImpl struct {
	source  Source
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	fps     int
}

// NewCamera creates a new Camera for the given source.
func NewCamera(source Source) Camera {
	return &cameraImpl{
		source: source,
		fps:    DefaultIdleFPS,
	}
}

// Open opens the video source. Webcam devices are forced to 640x480;
// network streams deliver whatever resolution the remote end produces.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)

	if deviceID, convErr := strconv.Atoi(c.source.Spec); convErr == nil {
		capture, err = gocv.OpenVideoCapture(deviceID)
		if err == nil {
			capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
			capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
			capture.Set(gocv.VideoCaptureFPS, float64(c.fps))
		}
	} else {
		capture, err = gocv.OpenVideoCapture(c.source.Spec)
	}
	if err != nil {
		return err
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// SetFPS sets the frames per second for capture.
// Values less than or equal to 0 are ignored.
func (c *cameraImpl) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps

	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the current frames per second setting.
func (c *cameraImpl) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
