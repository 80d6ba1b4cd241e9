package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError sends the {success:false, error} envelope used by every
// validation (400) and not-found (404) response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeInternalError logs the cause and hides it from the response unless
// running in development.
func writeInternalError(w http.ResponseWriter, err error) {
	log.Printf("internal error: %v", err)
	message := "Internal server error"
	if cfg != nil && cfg.IsDevelopment() {
		message = err.Error()
	}
	writeError(w, http.StatusInternalServerError, message)
}
