package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
)

type errorResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidMenu),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDeadlinePassed),
		errors.Is(err, domain.ErrSessionClosed),
		errors.Is(err, domain.ErrAlreadySent):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotAWeekday):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorage),
		errors.Is(err, domain.ErrAnnouncementFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status and a {reason, message} body. Server
// side failures are logged and their details kept out of the response.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Reason: domain.Reason(err), Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
