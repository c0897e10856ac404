package api

import (
	"encoding/json"
	"net/http"

	"github.com/rbac-console/admin-console/src/internal/console"
	"github.com/rbac-console/admin-console/src/internal/log"
)

// maxBodyBytes caps request bodies accepted by the API.
const maxBodyBytes = 1 << 20

// Handler serves the console API on top of a controller.
type Handler struct {
	ctrl *console.Controller
}

// NewHandler creates a new API handler.
func NewHandler(ctrl *console.Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnf("Failed to encode response: %v", err)
	}
}

// writeJSONData writes a successful JSON response wrapped in DataResponse.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, DataResponse{Data: data})
}

// writeCreated writes a 201 Created response wrapped in DataResponse.
func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, DataResponse{Data: data})
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// CheckHealth reports liveness.
// GET /health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, HealthResponse{Status: "ok", Loaded: h.ctrl.State().Loaded})
}
