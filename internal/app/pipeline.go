package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handwing/internal/controller"
	"github.com/ayusman/handwing/internal/gesture"
	"github.com/ayusman/handwing/internal/track"
)

// run is the pipeline pump. One frame at a time, in arrival order: the
// smoothing and debounce state is strictly sequential, so there is no
// parallelism here by construction. A tick that arrives while the
// previous frame is still processing is simply the next tick; stale
// work is never queued.
func (a *App) run() {
	defer close(a.done)

	interval := time.Second / time.Duration(a.cfg.ActiveFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	active := true

	for {
		var now time.Time
		select {
		case <-a.stop:
			return
		case now = <-ticker.C:
		}

		if !a.enabled.Load() {
			continue
		}

		frame, err := a.cfg.Camera.ReadFrame()
		if err != nil {
			// No frame is a missed detection for both hands, not a
			// pipeline error: the filter bridges it like any dropout.
			a.processFrame(nil, now)
			continue
		}

		motion := false
		if a.cfg.Motion != nil {
			motion, _ = a.cfg.Motion.Detect(frame)
		}

		tracked := a.processFrame(frame, now)
		frame.Close()

		// A statically held hand produces no pixel motion but must keep
		// the pipeline at full rate.
		nowActive := tracked || motion || a.cfg.Motion == nil
		if nowActive != active {
			active = nowActive
			fps := a.cfg.IdleFPS
			if active {
				fps = a.cfg.ActiveFPS
			}
			a.cfg.Camera.SetFPS(fps)
			ticker.Reset(time.Second / time.Duration(fps))
			log.Printf("app: pipeline %s, %d fps", activityLabel(active), fps)
		}
	}
}

func activityLabel(active bool) string {
	if active {
		return "active"
	}
	return "idle"
}

// processFrame runs one frame through normalize, filter, classify, map
// and aggregate, and forwards the result to the sink when the
// aggregator decides it is worth emitting. A nil frame counts as a
// missed detection. It reports whether any hand is currently tracked.
func (a *App) processFrame(frame *gocv.Mat, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.cfg.Profiles.Current()

	if frame != nil && !frame.Empty() && p.MirrorMode {
		gocv.Flip(*frame, frame, 1)
	}

	detected, err := a.cfg.Detector.Detect(frame)
	if err != nil {
		log.Printf("app: detector error: %v", err)
		detected = nil
	}

	states := track.Normalize(detected, p)
	filtered := a.filter.Step(states, now, p)

	var confirmed [track.NumSlots]gesture.Shape
	for slot := track.Slot(0); slot < track.NumSlots; slot++ {
		if !filtered[slot].Tracked {
			// A fully absent hand holds no gesture.
			a.machines[slot].Reset()
			confirmed[slot] = gesture.ShapeNone
			continue
		}

		cand := gesture.Candidate{Shape: gesture.ShapeNone}
		if states[slot].Present {
			cand = gesture.Classify(states[slot].Landmarks)
		}
		confirmed[slot] = a.machines[slot].Advance(cand, p)
	}

	a.recordSample(filtered)

	out := controller.MapAxes(filtered, p)
	out.Buttons = controller.Buttons(confirmed, p)

	if a.agg.Push(out, now, p) {
		a.deliver(out, confirmed)
	}

	return filtered[track.SlotLeft].Tracked || filtered[track.SlotRight].Tracked
}

// deliver forwards an emitted frame to the sink and the state
// listeners. Sink failures are logged on transition and otherwise
// dropped; the device may come back on a later frame.
func (a *App) deliver(out controller.Frame, confirmed [track.NumSlots]gesture.Shape) {
	if err := a.cfg.Sink.Apply(out); err != nil {
		if a.sinkUp {
			a.sinkUp = false
			log.Printf("app: sink unavailable, dropping frames: %v", err)
		}
	} else if !a.sinkUp {
		a.sinkUp = true
		log.Print("app: sink recovered")
	}

	if a.cfg.OnState != nil {
		a.cfg.OnState(out, map[string]string{
			"left":  string(confirmed[track.SlotLeft]),
			"right": string(confirmed[track.SlotRight]),
		})
	}
}
