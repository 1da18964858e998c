package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/handwing/internal/app"
	"github.com/ayusman/handwing/internal/capture"
	"github.com/ayusman/handwing/internal/controller"
	"github.com/ayusman/handwing/internal/detector"
	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/server"
	"github.com/ayusman/handwing/internal/sink"
	"github.com/ayusman/handwing/internal/store"
	"github.com/ayusman/handwing/internal/tray"

	"github.com/google/uuid"
)

const (
	defaultAddr      = ":8080"
	defaultFeederURL = "ws://127.0.0.1:8790/feeder"

	// Motion gate: fraction of changed pixels that counts as activity.
	motionThreshold = 1.0
)

func main() {
	fmt.Println("Handwing - Hand Tracking Virtual Controller")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".handwing")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "handwing.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	holder := profile.NewHolder(loadProfile(st))

	camera := openCamera()
	defer camera.Close()

	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to initialize hand tracker: %v", err)
	}
	defer det.Close()

	feederURL := os.Getenv("HANDWING_FEEDER")
	if feederURL == "" {
		feederURL = defaultFeederURL
	}
	out := sink.NewBridgeSink(feederURL)
	defer out.Close()

	state := server.NewStateHandler()
	trayUI := tray.New()

	application := app.New(app.Config{
		Camera:   camera,
		Motion:   capture.NewMotionDetector(motionThreshold),
		Detector: det,
		Sink:     out,
		Store:    st,
		Profiles: holder,
		OnState: func(frame controller.Frame, gestures map[string]string) {
			state.Publish(server.StateUpdate{Frame: frame, Gestures: gestures})
			trayUI.SetLastGesture(activeGesture(gestures))
		},
	})

	srv := server.New(server.Config{
		StaticDir:  findWebDir(),
		Store:      st,
		Camera:     camera,
		Profiles:   holder,
		Activator:  application,
		Calibrator: application,
		State:      state,
	})

	addr := os.Getenv("HANDWING_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	trayUI.OnToggle(application.SetEnabled)
	trayUI.OnReset(application.ResetNeutral)
	trayUI.OnSettings(func() {
		log.Printf("Settings UI: http://localhost%s", addr)
	})
	trayUI.OnQuit(application.Stop)

	// Blocks until quit; Stop has already neutralized the controller.
	trayUI.Run()
}

// loadProfile returns the stored active profile, falling back to the
// built-in default when none exists or the stored one fails validation.
// A fresh install seeds the store with the default profile.
func loadProfile(st *store.Store) *profile.Profile {
	p, err := st.Profiles().GetActive()
	if err == nil {
		if verr := p.Validate(); verr != nil {
			log.Printf("Stored profile %q invalid, using defaults: %v", p.Name, verr)
			return profile.Default()
		}
		log.Printf("Loaded profile %q", p.Name)
		return p
	}

	def := profile.Default()
	def.ID = uuid.New().String()
	if err := st.Profiles().Create(def); err == nil {
		if err := st.Profiles().SetActive(def.ID); err != nil {
			log.Printf("Failed to record active profile: %v", err)
		}
	}
	return def
}

// openCamera tries the configured source, then the default sources in
// order, and returns the first camera that opens.
func openCamera() capture.Camera {
	sources := capture.DefaultSources()
	if spec := os.Getenv("HANDWING_CAMERA"); spec != "" {
		sources = append([]capture.Source{{Name: "Configured Camera", Spec: spec}}, sources...)
	}

	for _, src := range sources {
		camera := capture.NewCamera(src)
		if err := camera.Open(); err != nil {
			log.Printf("Camera %s unavailable: %v", src.Name, err)
			continue
		}
		log.Printf("Using camera: %s", src.Name)
		return camera
	}

	log.Fatal("No camera could be opened")
	return nil
}

// activeGesture picks the gesture to surface in the tray: the first
// hand holding one.
func activeGesture(gestures map[string]string) string {
	if g := gestures["left"]; g != "" && g != "none" {
		return g
	}
	return gestures["right"]
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.handwing/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".handwing", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
