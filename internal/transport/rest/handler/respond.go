package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"amberreview/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps the service error taxonomy onto HTTP status codes.
// A closed room is 410, not 404, so clients can tell "host left" apart from a
// bad code.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRoomClosed):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, service.ErrNotHost), errors.Is(err, service.ErrNotInRoom):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrEmptyReview),
		errors.Is(err, service.ErrTextTooLong),
		errors.Is(err, service.ErrInvalidRatings),
		errors.Is(err, service.ErrWrongPhase),
		errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrGameStarted),
		errors.Is(err, service.ErrNameTaken),
		errors.Is(err, service.ErrNotEnoughPlayers):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
