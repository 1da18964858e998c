package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/handwing/internal/profile"
)

// Calibrator runs the calibration sweep: recording hand positions and
// fitting them into a new profile.
type Calibrator interface {
	// StartCalibration begins recording samples against the live
	// pipeline.
	StartCalibration() error

	// FinishCalibration stops recording, fits the recorded samples into
	// a new profile, persists it and swaps it into the pipeline.
	FinishCalibration(name string) (*profile.Profile, error)

	// CancelCalibration stops recording and discards the samples.
	CancelCalibration() error
}

// CalibrationHandler handles HTTP requests for the calibration flow.
type CalibrationHandler struct {
	calibrator Calibrator
}

// NewCalibrationHandler creates a new CalibrationHandler.
func NewCalibrationHandler(c Calibrator) *CalibrationHandler {
	return &CalibrationHandler{calibrator: c}
}

type finishCalibrationRequest struct {
	Name string `json:"name"`
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/calibration/start, /api/calibration/finish,
// /api/calibration/cancel, all POST.
func (h *CalibrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/api/calibration/")
	switch action {
	case "start":
		h.start(w, r)
	case "finish":
		h.finish(w, r)
	case "cancel":
		h.cancel(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// start handles POST /api/calibration/start.
func (h *CalibrationHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.calibrator.StartCalibration(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recording"})
}

// finish handles POST /api/calibration/finish. The optional JSON body
// names the new profile.
func (h *CalibrationHandler) finish(w http.ResponseWriter, r *http.Request) {
	var req finishCalibrationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	p, err := h.calibrator.FinishCalibration(req.Name)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// cancel handles POST /api/calibration/cancel.
func (h *CalibrationHandler) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.calibrator.CancelCalibration(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
