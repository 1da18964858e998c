package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/ayusman/handwing/internal/profile"
)

type mockCalibrator struct {
	started   int
	finished  []string
	cancelled int
	err       error
}

func (m *mockCalibrator) StartCalibration() error {
	if m.err != nil {
		return m.err
	}
	m.started++
	return nil
}

func (m *mockCalibrator) FinishCalibration(name string) (*profile.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.finished = append(m.finished, name)
	p := profile.Default()
	p.Name = name
	return p, nil
}

func (m *mockCalibrator) CancelCalibration() error {
	if m.err != nil {
		return m.err
	}
	m.cancelled++
	return nil
}

func TestCalibrationHandler_Flow(t *testing.T) {
	calibrator := &mockCalibrator{}
	h := NewCalibrationHandler(calibrator)

	rec := doJSON(t, h, http.MethodPost, "/api/calibration/start", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want %d", rec.Code, http.StatusOK)
	}
	if calibrator.started != 1 {
		t.Errorf("started = %d, want 1", calibrator.started)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/calibration/finish",
		finishCalibrationRequest{Name: "wide"})
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	var p profile.Profile
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode fitted profile: %v", err)
	}
	if p.Name != "wide" {
		t.Errorf("fitted profile name = %q, want wide", p.Name)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/calibration/cancel", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, want %d", rec.Code, http.StatusOK)
	}
	if calibrator.cancelled != 1 {
		t.Errorf("cancelled = %d, want 1", calibrator.cancelled)
	}
}

func TestCalibrationHandler_Conflict(t *testing.T) {
	calibrator := &mockCalibrator{err: errors.New("calibration already running")}
	h := NewCalibrationHandler(calibrator)

	rec := doJSON(t, h, http.MethodPost, "/api/calibration/start", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestCalibrationHandler_MethodAndPath(t *testing.T) {
	h := NewCalibrationHandler(&mockCalibrator{})

	rec := doJSON(t, h, http.MethodGet, "/api/calibration/start", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/calibration/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown action status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
