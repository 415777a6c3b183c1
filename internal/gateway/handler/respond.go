package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"boxoffice/internal/dashboard"
)

var (
	errUnknownCategory = errors.New("unknown category")
	errNoSnapshot      = errors.New("no dashboard data yet")
	errArchiveDisabled = errors.New("archive is disabled")
	errBadLimit        = errors.New("limit must be a non-negative integer")
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// statusFor maps handler and service errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrRefreshInProgress), errors.Is(err, errNoSnapshot):
		return http.StatusConflict
	case errors.Is(err, errUnknownCategory), errors.Is(err, errArchiveDisabled):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrInvalidQuery), errors.Is(err, errBadLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, r, status, errorBody{Error: msg})
}
