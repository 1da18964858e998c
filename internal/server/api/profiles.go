// Package api provides HTTP API handlers for the Handwing virtual
// controller.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/handwing/internal/profile"
	"github.com/ayusman/handwing/internal/store"
)

// Activator applies a stored profile to the running pipeline.
type Activator interface {
	// ActivateProfile makes the profile the live pipeline profile.
	ActivateProfile(p *profile.Profile) error
}

// ProfileHandler handles HTTP requests for calibration profile resources.
type ProfileHandler struct {
	store     *store.Store
	activator Activator
}

// NewProfileHandler creates a new ProfileHandler. activator may be nil,
// in which case activation only records the choice in the store.
func NewProfileHandler(s *store.Store, activator Activator) *ProfileHandler {
	return &ProfileHandler{store: s, activator: activator}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate method.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/profiles, /api/profiles/{id},
	// /api/profiles/{id}/activate
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type listProfilesResponse struct {
	Profiles []*profile.Profile `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON decodes a request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}
	if profiles == nil {
		profiles = []*profile.Profile{}
	}

	writeJSON(w, http.StatusOK, listProfilesResponse{Profiles: profiles})
}

// create handles POST /api/profiles and stores a new profile.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	p := profile.Default()
	if err := json.NewDecoder(r.Body).Decode(p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p.ID = uuid.New().String()
	if p.Name == "" {
		writeError(w, http.StatusBadRequest, "Profile name is required")
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Profiles().Create(p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// update handles PUT /api/profiles/{id} and replaces a profile.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	p := profile.Default()
	if err := json.NewDecoder(r.Body).Decode(p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p.ID = id
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Profiles().Update(p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// delete handles DELETE /api/profiles/{id}.
func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Profiles().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// activate handles POST /api/profiles/{id}/activate: it records the
// choice and swaps the profile into the running pipeline.
func (h *ProfileHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	if err := h.store.Profiles().SetActive(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set active profile")
		return
	}

	if h.activator != nil {
		if err := h.activator.ActivateProfile(p); err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, p)
}
