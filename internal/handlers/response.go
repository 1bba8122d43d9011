package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// respondJSON writes any payload as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

// respondEnvelope writes the standard {success, message} envelope.
func respondEnvelope(w http.ResponseWriter, status int, success bool, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": success,
		"message": message,
	})
}
