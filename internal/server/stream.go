package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handwing/internal/capture"
	"github.com/ayusman/handwing/internal/profile"
)

// StreamHandler serves MJPEG preview frames from the camera. When the
// active profile has mirror mode on, frames are flipped horizontally so
// the preview behaves like a mirror.
type StreamHandler struct {
	camera   capture.Camera
	profiles *profile.Holder
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(camera capture.Camera, profiles *profile.Holder) *StreamHandler {
	return &StreamHandler{camera: camera, profiles: profiles}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		if h.profiles.Current().MirrorMode {
			gocv.Flip(*frame, frame, 1)
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}
