package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"lue-lue-backend/internal/db"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeRepoError maps repository errors onto HTTP status codes.
func writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case db.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found")
	case db.IsUniqueViolation(err):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, db.ErrEmptyRoster),
		errors.Is(err, db.ErrEmptyMessage),
		errors.Is(err, db.ErrTooManyCards),
		errors.Is(err, db.ErrConflictingQuery),
		errors.Is(err, db.ErrNoUpdateFields):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrGameFull):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
