package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/werkgeheugen/backend/internal/logger"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondRawJSON sends a payload as-is, without the response envelope.
// The planner web client consumes the document directly.
func respondRawJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// maxClientErrorLength caps error messages sent to clients
const maxClientErrorLength = 200

// sanitizeErrorMessage removes internal details from error messages
func sanitizeErrorMessage(message string) string {
	return logger.SanitizeString(message, maxClientErrorLength)
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Sanitize error message to prevent information disclosure
	sanitizedMessage := sanitizeErrorMessage(message)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizedMessage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
