package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type SessionHandler struct {
	service ports.SessionService
	logger  *slog.Logger
}

func NewSessionHandler(service ports.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger,
	}
}

type dateRequest struct {
	Date string `json:"date"`
}

func (h *SessionHandler) Today(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, "")
}

func (h *SessionHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	h.status(w, r, chi.URLParam(r, "date"))
}

func (h *SessionHandler) status(w http.ResponseWriter, r *http.Request, date string) {
	status, err := h.service.Status(r.Context(), date)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *SessionHandler) StartAnnouncement(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.StartAnnouncement(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDateRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.service.RefreshAnnouncement(r.Context(), req.Date); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Close closes the given date, today when the body is empty.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDateRequest(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.service.Close(r.Context(), req.Date); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) CloseFinal(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseAndAnnounceFinal(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Delivery(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AnnounceDelivery(r.Context()); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeDateRequest accepts an empty body.
func decodeDateRequest(r *http.Request) (dateRequest, error) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	return req, nil
}
