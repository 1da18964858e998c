package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/track"
)

// Calibration sentinel errors, surfaced through the HTTP API.
var (
	ErrCalibrationRunning    = errors.New("calibration already running")
	ErrCalibrationNotRunning = errors.New("no calibration in progress")
)

// StartCalibration begins recording hand positions from the live
// pipeline. The user then sweeps both hands through their full control
// travel until FinishCalibration.
func (a *App) StartCalibration() error {
	a.calMu.Lock()
	defer a.calMu.Unlock()

	if a.recording {
		return ErrCalibrationRunning
	}

	a.recording = true
	a.samples = nil
	log.Print("app: calibration recording started")
	return nil
}

// CancelCalibration stops recording and discards the samples.
func (a *App) CancelCalibration() error {
	a.calMu.Lock()
	defer a.calMu.Unlock()

	if !a.recording {
		return ErrCalibrationNotRunning
	}

	a.recording = false
	a.samples = nil
	log.Print("app: calibration cancelled")
	return nil
}

// FinishCalibration stops recording, fits the recorded sweep into a new
// profile, persists it as the active profile and swaps it into the
// pipeline. On a failed fit the previous profile stays active.
func (a *App) FinishCalibration(name string) (*profile.Profile, error) {
	a.calMu.Lock()
	if !a.recording {
		a.calMu.Unlock()
		return nil, ErrCalibrationNotRunning
	}
	a.recording = false
	samples := a.samples
	a.samples = nil
	a.calMu.Unlock()

	base := a.cfg.Profiles.Current()
	fitted, err := profile.Fit(base, samples)
	if err != nil {
		log.Printf("app: calibration fit rejected: %v", err)
		return nil, err
	}

	fitted.ID = uuid.New().String()
	if name == "" {
		name = fmt.Sprintf("calibrated %s", time.Now().Format("2006-01-02 15:04"))
	}
	fitted.Name = name

	if a.cfg.Store != nil {
		if err := a.cfg.Store.Profiles().Create(fitted); err != nil {
			return nil, fmt.Errorf("failed to persist calibrated profile: %w", err)
		}
		if err := a.cfg.Store.Samples().Add(fitted.ID, samples); err != nil {
			log.Printf("app: failed to persist calibration samples: %v", err)
		}
		if err := a.cfg.Store.Profiles().SetActive(fitted.ID); err != nil {
			log.Printf("app: failed to record active profile: %v", err)
		}
	}

	a.cfg.Profiles.Swap(fitted)
	log.Printf("app: calibration complete, profile %q active (%d samples)", name, len(samples))
	return fitted, nil
}

// recordSample captures one calibration observation from the filtered
// hand states. Called by the pipeline on every frame; a no-op unless a
// calibration sweep is recording.
func (a *App) recordSample(filtered [track.NumSlots]track.FilteredHand) {
	a.calMu.Lock()
	defer a.calMu.Unlock()

	if !a.recording {
		return
	}

	left, right := filtered[track.SlotLeft], filtered[track.SlotRight]
	if !left.Tracked && !right.Tracked {
		return
	}

	a.samples = append(a.samples, profile.Sample{
		LeftX:        left.Position.X,
		LeftY:        left.Position.Y,
		RightX:       right.Position.X,
		RightY:       right.Position.Y,
		LeftPresent:  left.Tracked,
		RightPresent: right.Tracked,
	})
}
