package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dnovoa/payledger/internal/repositories"
	"github.com/dnovoa/payledger/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the service and repository sentinels onto HTTP
// status codes. The three authentication failures keep distinct messages
// so a client can tell "log in again" from "retry with a token".
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidName),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrConflict):
		writeError(w, http.StatusConflict, "name already taken")
	case errors.Is(err, repositories.ErrNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, services.ErrMissingToken),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
