package handlers

import (
	"net/http"
	"os"
	"time"
)

// SystemHandler serves process-level health information. It deliberately
// carries no host-resource introspection (memoryLimitMB is advisory and
// unenforced by the core — see DESIGN.md) — it reports that this process
// is up, not what the host is doing.
type SystemHandler struct{}

// NewSystemHandler builds a SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// GetHealth reports liveness.
// GET /healthz
func (h *SystemHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"pid":       os.Getpid(),
	}
	writeJSON(w, http.StatusOK, health)
}
