package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the engine's sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, belief.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, belief.ErrNotFound), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, belief.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
