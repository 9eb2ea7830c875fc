package http

import (
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/lunchorder/internal/core/calendar"
	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type OrderHandler struct {
	service ports.SummaryService
	logger  *slog.Logger
}

func NewOrderHandler(service ports.SummaryService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type orderQueryResponse struct {
	Period         calendar.Period    `json:"period"`
	TotalVotes     int                `json:"total_votes"`
	DistinctVoters int                `json:"distinct_voters"`
	MenuTotals     domain.MenuCounts  `json:"menu_totals"`
	Users          []domain.UserTotal `json:"users"`
	Days           []domain.DayTotal  `json:"days"`
	Degraded       bool               `json:"degraded"`
	Session        *domain.Session    `json:"session,omitempty"`
}

// Query summarizes the orders of ?period=, which accepts today,
// this-week, this-month, a date or a start~end range.
func (h *OrderHandler) Query(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Query(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	agg := result.Aggregate
	writeJSON(w, http.StatusOK, orderQueryResponse{
		Period:         result.Period,
		TotalVotes:     agg.TotalVotes,
		DistinctVoters: agg.DistinctVoters,
		MenuTotals:     agg.MenuTotals,
		Users:          agg.SortedUsers(),
		Days:           agg.SortedDays(),
		Degraded:       agg.Degraded,
		Session:        result.Session,
	})
}
