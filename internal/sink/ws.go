package sink

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handwing/internal/controller"
)

const (
	bridgeHandshakeTimeout = 2 * time.Second
	bridgeWriteTimeout     = time.Second
)

// bridgeMessage is the wire format spoken to the feeder: one JSON
// object per frame or command.
type bridgeMessage struct {
	Type  string            `json:"type"` // "frame" or "release_all"
	Frame *controller.Frame `json:"frame,omitempty"`
}

// BridgeSink delivers frames over a WebSocket to the host-side feeder
// process that owns the virtual joystick device.
//
// The connection is dialed lazily and redialed after any failure, so
// the feeder can start after the tracker or restart underneath it. A
// frame that hits a dead connection is lost; the next Apply redials.
type BridgeSink struct {
	url    string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewBridgeSink creates a sink that connects to the feeder at url
// (e.g. "ws://127.0.0.1:8790/feeder") on first use.
func NewBridgeSink(url string) *BridgeSink {
	return &BridgeSink{
		url:    url,
		dialer: &websocket.Dialer{HandshakeTimeout: bridgeHandshakeTimeout},
	}
}

// Apply forwards one controller frame to the feeder.
func (s *BridgeSink) Apply(frame controller.Frame) error {
	return s.send(bridgeMessage{Type: "frame", Frame: &frame})
}

// ReleaseAll tells the feeder to neutralize every axis and button.
func (s *BridgeSink) ReleaseAll() error {
	return s.send(bridgeMessage{Type: "release_all"})
}

// Close drops the feeder connection.
func (s *BridgeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *BridgeSink) send(msg bridgeMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, _, err := s.dialer.Dial(s.url, nil)
		if err != nil {
			return fmt.Errorf("%w: dial %s: %v", ErrUnavailable, s.url, err)
		}
		log.Printf("sink: connected to feeder at %s", s.url)
		s.conn = conn
	}

	s.conn.SetWriteDeadline(time.Now().Add(bridgeWriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.conn.Close()
		s.conn = nil
		return fmt.Errorf("%w: write: %v", ErrUnavailable, err)
	}
	return nil
}
