package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "action") == "ping" {
		writeEnvelope(w, http.StatusOK, "pong", "", nil)
		return
	}
	writeValidationError(w, fmt.Errorf("unknown action"))
}
