// Package app wires the capture, tracking and output components into
// the running Handwing pipeline and owns its lifecycle.
package app

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/handwing/internal/capture"
	"github.com/ayusman/handwing/internal/controller"
	"github.com/ayusman/handwing/internal/detector"
	"github.com/ayusman/handwing/internal/gesture"
	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/sink"
	"github.com/ayusman/handwing/internal/store"
	"github.com/ayusman/handwing/internal/track"
)

// Default pipeline frame rates. The pipeline runs at the active rate
// while hands are tracked or motion is seen, and drops to the idle rate
// when the scene goes quiet.
const (
	DefaultActiveFPS = 30
	DefaultIdleFPS   = capture.DefaultIdleFPS
)

// ErrAlreadyRunning is returned by Start when the pipeline is running.
var ErrAlreadyRunning = errors.New("pipeline already running")

// Config holds the App's collaborators. Motion, Store and OnState are
// optional.
type Config struct {
	Camera   capture.Camera
	Motion   *capture.MotionDetector
	Detector detector.Detector
	Sink     sink.Sink
	Store    *store.Store
	Profiles *profile.Holder

	// OnState, when set, receives every emitted controller frame along
	// with the confirmed gesture of each hand, keyed "left"/"right".
	OnState func(frame controller.Frame, gestures map[string]string)

	ActiveFPS int
	IdleFPS   int
}

// App is the Handwing application core: it pumps camera frames through
// the tracking pipeline and forwards the resulting controller frames to
// the output sink.
type App struct {
	cfg Config

	// mu guards the per-frame pipeline state below. The pipeline
	// goroutine holds it for the duration of each frame; control
	// operations (reset, shutdown neutralization) take it between
	// frames.
	mu       sync.Mutex
	filter   *track.Filter
	machines [track.NumSlots]*gesture.Machine
	agg      *controller.Aggregator
	sinkUp   bool

	enabled atomic.Bool

	runMu   sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	calMu     sync.Mutex
	recording bool
	samples   []profile.Sample
}

// New creates an App from the given configuration. Tracking starts
// enabled.
func New(cfg Config) *App {
	if cfg.ActiveFPS <= 0 {
		cfg.ActiveFPS = DefaultActiveFPS
	}
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = DefaultIdleFPS
	}

	a := &App{
		cfg:    cfg,
		filter: track.NewFilter(),
		agg:    controller.NewAggregator(),
		sinkUp: true,
	}
	for slot := track.Slot(0); slot < track.NumSlots; slot++ {
		a.machines[slot] = gesture.NewMachine()
	}
	a.enabled.Store(true)
	return a
}

// Start opens the camera and launches the pipeline goroutine.
func (a *App) Start() error {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if a.running {
		return ErrAlreadyRunning
	}

	if !a.cfg.Camera.IsOpen() {
		if err := a.cfg.Camera.Open(); err != nil {
			return err
		}
	}

	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	a.running = true
	go a.run()

	log.Print("app: pipeline started")
	return nil
}

// Stop halts the pipeline and fulfills the neutral-on-stop contract:
// one final all-neutral frame followed by a release-all, so the
// emulated controller never sticks in its last active state.
func (a *App) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	if !a.running {
		return
	}

	close(a.stop)
	<-a.done
	a.running = false

	a.neutralize()
	log.Print("app: pipeline stopped")
}

// SetEnabled toggles tracking. Disabling neutralizes the controller
// immediately; the pipeline keeps running but skips frames until
// re-enabled.
func (a *App) SetEnabled(enabled bool) {
	was := a.enabled.Swap(enabled)
	if was && !enabled {
		a.neutralize()
		log.Print("app: tracking disabled")
	} else if !was && enabled {
		log.Print("app: tracking enabled")
	}
}

// Enabled reports whether tracking is enabled.
func (a *App) Enabled() bool {
	return a.enabled.Load()
}

// ResetNeutral forces the controller to neutral and clears all
// tracking state, without stopping the pipeline.
func (a *App) ResetNeutral() {
	a.neutralize()
	log.Print("app: controller reset to neutral")
}

// ActivateProfile swaps a validated profile into the running pipeline.
func (a *App) ActivateProfile(p *profile.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	a.cfg.Profiles.Swap(p)
	log.Printf("app: profile %q activated", p.Name)
	return nil
}

// neutralize emits one neutral frame, releases all buttons and resets
// the tracking state.
func (a *App) neutralize() {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.cfg.Profiles.Current()
	if err := a.cfg.Sink.Apply(controller.NeutralFrame(p)); err != nil {
		log.Printf("app: neutral frame not delivered: %v", err)
	}
	if err := a.cfg.Sink.ReleaseAll(); err != nil {
		log.Printf("app: release all not delivered: %v", err)
	}

	a.filter.Reset()
	for _, m := range a.machines {
		m.Reset()
	}
	a.agg.Reset()
}
