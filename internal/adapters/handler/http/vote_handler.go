package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type VoteHandler struct {
	service  ports.OrderService
	sessions ports.SessionService
	logger   *slog.Logger
}

func NewVoteHandler(service ports.OrderService, sessions ports.SessionService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

type voteRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Menu     string `json:"menu"`
}

type voteResponse struct {
	Vote         domain.Vote `json:"vote"`
	Updated      bool        `json:"updated"`
	PreviousMenu domain.Menu `json:"previous_menu,omitempty"`
}

// Submit records a vote and refreshes the day's announcement totals.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput))
		return
	}

	menu, err := domain.ParseMenu(req.Menu)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.service.Submit(r.Context(), ports.SubmitVoteInput{
		UserID:   req.UserID,
		UserName: req.UserName,
		Menu:     menu,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.RefreshAnnouncement(r.Context(), result.Vote.Date); err != nil {
		h.logger.Warn("failed to refresh announcement", "date", result.Vote.Date, "error", err)
	}

	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	writeJSON(w, status, voteResponse{
		Vote:         result.Vote,
		Updated:      result.Updated,
		PreviousMenu: result.PreviousMenu,
	})
}
