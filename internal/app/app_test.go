package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/handwing/internal/controller"
	"github.com/ayusman/handwing/internal/detector"
	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/sink"
	"github.com/ayusman/handwing/internal/store"
)

const frameInterval = 33 * time.Millisecond

// testApp builds an App around mocks, without starting the pipeline
// goroutine: tests drive processFrame directly for determinism.
func testApp(t *testing.T, det *detector.MockDetector) (*App, *sink.MockSink) {
	t.Helper()

	out := sink.NewMockSink()
	a := New(Config{
		Detector: det,
		Sink:     out,
		Profiles: profile.NewHolder(profile.Default()),
	})
	return a, out
}

// pump feeds n detector-driven frames through the pipeline at the
// standard interval, starting after start, and returns the next frame
// time.
func pump(a *App, start time.Time, n int) time.Time {
	now := start
	for i := 0; i < n; i++ {
		now = now.Add(frameInterval)
		a.processFrame(nil, now)
	}
	return now
}

func twoHands(leftX, leftY, rightX, rightY float64, shape detector.Shape) []detector.HandLandmarks {
	return []detector.HandLandmarks{
		detector.HandAt(leftX, leftY, "Left", 0.9, shape),
		detector.HandAt(rightX, rightY, "Right", 0.9, detector.ShapeOpenPalm),
	}
}

func TestApp_EndToEndAxes(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	a, out := testApp(t, det)

	pump(a, time.Unix(0, 0), 1)

	frames := out.Frames()
	if len(frames) != 1 {
		t.Fatalf("emitted %d frames, want 1", len(frames))
	}

	got := frames[0]
	if got.LeftBrake != -38 || got.RightBrake != -38 {
		t.Errorf("brakes = %d/%d, want -38/-38", got.LeftBrake, got.RightBrake)
	}
	if got.Rotation != 180 {
		t.Errorf("rotation = %d, want neutral 180 with aligned centers", got.Rotation)
	}
	if got.SpeedBar != 0 {
		t.Errorf("speed bar = %d, want 0 at mid height", got.SpeedBar)
	}
}

func TestApp_StaticHandsEmitOnceThenHeartbeat(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	a, out := testApp(t, det)

	// One second of a perfectly static pose.
	pump(a, time.Unix(0, 0), 30)

	frames := out.Frames()
	if len(frames) < 2 {
		t.Fatalf("emitted %d frames, want the initial emission plus heartbeats", len(frames))
	}
	// Static input: every emission after the first must be identical.
	for i := 1; i < len(frames); i++ {
		if !frames[i].Equal(frames[0]) {
			t.Errorf("frame %d = %+v differs from the initial %+v", i, frames[i], frames[0])
		}
	}
	// ~1s at a 500ms heartbeat: one initial plus about two heartbeats.
	if len(frames) > 4 {
		t.Errorf("emitted %d frames for static input, want at most 4", len(frames))
	}
}

func TestApp_GesturePressAndRelease(t *testing.T) {
	det := detector.NewMockDetector()
	a, out := testApp(t, det)
	p := a.cfg.Profiles.Current()

	// Hold a left fist long enough to confirm: button 0 presses.
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeFist))
	now := pump(a, time.Unix(0, 0), p.HoldFrames)

	frames := out.Frames()
	if len(frames) == 0 {
		t.Fatal("no frames emitted")
	}
	last := frames[len(frames)-1]
	if !last.Buttons[0] {
		t.Fatalf("button 0 not pressed after a %d-frame fist hold: %+v", p.HoldFrames, last)
	}

	// Open the hand: the fist survives its grace window, then releases.
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	pump(a, now, p.ReleaseGraceFrames+1)

	frames = out.Frames()
	last = frames[len(frames)-1]
	if last.Buttons[0] {
		t.Errorf("button 0 still pressed after release: %+v", last)
	}
}

func TestApp_DetectorErrorIsAMiss(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	a, out := testApp(t, det)

	now := pump(a, time.Unix(0, 0), 3)

	// A failing detector must not halt the pipeline or zero the axes
	// within the grace window.
	det.SetError(errors.New("tracker crashed"))
	now = pump(a, now, 2)
	det.SetError(nil)
	pump(a, now, 1)

	frames := out.Frames()
	last := frames[len(frames)-1]
	if last.LeftBrake == 0 {
		t.Errorf("left brake = 0 after a short detector outage, want the tracked pull held")
	}
}

func TestApp_SinkFailureDoesNotResetTracking(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	a, out := testApp(t, det)

	now := pump(a, time.Unix(0, 0), 2)

	out.SetError(sink.ErrUnavailable)
	// Move while the sink is down; frames are dropped, state advances.
	det.SetHands(twoHands(0.6, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	now = pump(a, now, 30)
	out.SetError(nil)
	pump(a, now, 30)

	frames := out.Frames()
	last := frames[len(frames)-1]
	// 0.6 pull converged: around -round(0.6*127) = -76.
	if last.LeftBrake > -70 {
		t.Errorf("left brake = %d after sink recovery, want the converged pull near -76", last.LeftBrake)
	}
}

func TestApp_DisableNeutralizes(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeFist))
	a, out := testApp(t, det)
	p := a.cfg.Profiles.Current()

	pump(a, time.Unix(0, 0), p.HoldFrames+1)

	a.SetEnabled(false)

	frames := out.Frames()
	last := frames[len(frames)-1]
	if !last.Equal(controller.NeutralFrame(p)) {
		t.Errorf("final frame = %+v, want all-neutral on disable", last)
	}
	if out.Releases() != 1 {
		t.Errorf("releases = %d, want 1", out.Releases())
	}
	if a.Enabled() {
		t.Error("app should report disabled")
	}
}

func TestApp_OnStateReceivesGestures(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeFist))

	var lastGestures map[string]string
	out := sink.NewMockSink()
	a := New(Config{
		Detector: det,
		Sink:     out,
		Profiles: profile.NewHolder(profile.Default()),
		OnState: func(_ controller.Frame, gestures map[string]string) {
			lastGestures = gestures
		},
	})

	pump(a, time.Unix(0, 0), a.cfg.Profiles.Current().HoldFrames)

	if lastGestures["left"] != "fist" {
		t.Errorf("left gesture = %q, want fist", lastGestures["left"])
	}
	if lastGestures["right"] != "open_palm" {
		t.Errorf("right gesture = %q, want open_palm", lastGestures["right"])
	}
}

func TestApp_ActivateProfile(t *testing.T) {
	det := detector.NewMockDetector()
	a, _ := testApp(t, det)

	next := profile.Default()
	next.Name = "wide"
	if err := a.ActivateProfile(next); err != nil {
		t.Fatalf("ActivateProfile: %v", err)
	}
	if a.cfg.Profiles.Current().Name != "wide" {
		t.Error("profile swap did not reach the holder")
	}

	bad := profile.Default()
	bad.Axes.RotationCenter = 400
	if err := a.ActivateProfile(bad); !errors.Is(err, profile.ErrInvalid) {
		t.Errorf("ActivateProfile(invalid) = %v, want ErrInvalid", err)
	}
}

func TestApp_CalibrationFlow(t *testing.T) {
	det := detector.NewMockDetector()
	out := sink.NewMockSink()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer st.Close()

	holder := profile.NewHolder(profile.Default())
	a := New(Config{
		Detector: det,
		Sink:     out,
		Store:    st,
		Profiles: holder,
	})

	if err := a.StartCalibration(); err != nil {
		t.Fatalf("StartCalibration: %v", err)
	}
	if err := a.StartCalibration(); !errors.Is(err, ErrCalibrationRunning) {
		t.Errorf("second start = %v, want ErrCalibrationRunning", err)
	}

	// Sweep both hands together through most of the frame, covering
	// horizontal travel, vertical travel and the hand midpoint.
	now := time.Unix(0, 0)
	for i := 0; i < 60; i++ {
		pos := 0.1 + 0.8*float64(i)/59
		det.SetHands(twoHands(pos, pos, pos, 1-pos, detector.ShapeOpenPalm))
		now = pump(a, now, 1)
	}

	fitted, err := a.FinishCalibration("session")
	if err != nil {
		t.Fatalf("FinishCalibration: %v", err)
	}
	if fitted.Name != "session" || fitted.ID == "" {
		t.Errorf("fitted profile = %q/%q, want a named profile with an ID", fitted.Name, fitted.ID)
	}
	if fitted.Axes.LeftBrake.Range.Span() < 0.3 {
		t.Errorf("fitted left range span = %f, want the recorded sweep width",
			fitted.Axes.LeftBrake.Range.Span())
	}
	if holder.Current() != fitted {
		t.Error("fitted profile should be live in the holder")
	}

	active, err := st.Profiles().GetActive()
	if err != nil {
		t.Fatalf("failed to load active profile: %v", err)
	}
	if active.ID != fitted.ID {
		t.Errorf("persisted active profile = %q, want %q", active.ID, fitted.ID)
	}

	samples, err := st.Samples().ListByProfile(fitted.ID)
	if err != nil {
		t.Fatalf("failed to list samples: %v", err)
	}
	if len(samples) != 60 {
		t.Errorf("persisted %d samples, want 60", len(samples))
	}
}

func TestApp_CalibrationRejectsNarrowSweep(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	a, _ := testApp(t, det)
	before := a.cfg.Profiles.Current()

	if err := a.StartCalibration(); err != nil {
		t.Fatalf("StartCalibration: %v", err)
	}
	pump(a, time.Unix(0, 0), 40) // hands never move

	if _, err := a.FinishCalibration(""); err == nil {
		t.Fatal("a motionless sweep must not produce a profile")
	}
	if a.cfg.Profiles.Current() != before {
		t.Error("a failed fit must leave the previous profile active")
	}
}

func TestApp_CalibrationCancel(t *testing.T) {
	det := detector.NewMockDetector()
	a, _ := testApp(t, det)

	if err := a.CancelCalibration(); !errors.Is(err, ErrCalibrationNotRunning) {
		t.Errorf("cancel with nothing running = %v, want ErrCalibrationNotRunning", err)
	}

	if err := a.StartCalibration(); err != nil {
		t.Fatalf("StartCalibration: %v", err)
	}
	if err := a.CancelCalibration(); err != nil {
		t.Fatalf("CancelCalibration: %v", err)
	}
	if _, err := a.FinishCalibration(""); !errors.Is(err, ErrCalibrationNotRunning) {
		t.Errorf("finish after cancel = %v, want ErrCalibrationNotRunning", err)
	}
}

func TestApp_ResetNeutral(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands(twoHands(0.3, 0.5, 0.7, 0.5, detector.ShapeOpenPalm))
	a, out := testApp(t, det)

	now := pump(a, time.Unix(0, 0), 3)
	a.ResetNeutral()

	p := a.cfg.Profiles.Current()
	frames := out.Frames()
	if !frames[len(frames)-1].Equal(controller.NeutralFrame(p)) {
		t.Error("ResetNeutral should emit an all-neutral frame")
	}

	// Tracking state restarts: the next detection seeds fresh.
	pump(a, now, 1)
	frames = out.Frames()
	last := frames[len(frames)-1]
	if last.LeftBrake != -38 {
		t.Errorf("left brake = %d after reset and re-detection, want a fresh -38", last.LeftBrake)
	}
}
