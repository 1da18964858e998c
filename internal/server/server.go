package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/handwing/internal/capture"
	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/server/api"
	"github.com/ayusman/handwing/internal/store"
)

// Config holds the server configuration. Nil collaborators disable the
// routes that need them.
type Config struct {
	StaticDir  string
	Store      *store.Store
	Camera     capture.Camera
	Profiles   *profile.Holder
	Activator  api.Activator
	Calibrator api.Calibrator
	State      *StateHandler
}

// Server represents the HTTP server for the Handwing application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		profileHandler := api.NewProfileHandler(s.config.Store, s.config.Activator)
		s.mux.Handle("/api/profiles", profileHandler)
		s.mux.Handle("/api/profiles/", profileHandler)
	}

	if s.config.Calibrator != nil {
		calibrationHandler := api.NewCalibrationHandler(s.config.Calibrator)
		s.mux.Handle("/api/calibration/", calibrationHandler)
	}

	if s.config.Camera != nil && s.config.Profiles != nil {
		streamHandler := NewStreamHandler(s.config.Camera, s.config.Profiles)
		s.mux.Handle("/api/stream", streamHandler)
	}

	if s.config.State != nil {
		s.mux.Handle("/api/state", s.config.State)
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
