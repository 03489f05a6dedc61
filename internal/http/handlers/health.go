package handlers

import "net/http"

// GetHealth reports liveness.
// GET /healthz
func GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
