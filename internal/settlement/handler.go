package settlement

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/internal/activity"
	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/request"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for settle-up
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints, mounted at
// /activities/{activityId}/settlement
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)

	return r
}

// Get handles GET /activities/{activityId}/settlement
// @Summary      Settle up an activity
// @Description  Per-member balances and the payments that leave everyone even
// @Tags         settlements
// @Produce      json
// @Param        activityId path string true "Activity ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /activities/{activityId}/settlement [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	settlement, err := h.service.GetSettlement(r.Context(), userID, activityID)
	if err != nil {
		switch {
		case errors.Is(err, activity.ErrActivityNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, activity.ErrNotAuthorized):
			response.Forbidden(w, err.Error())
		default:
			slog.ErrorContext(r.Context(), "failed to compute settlement", "activity_id", activityID, "error", err)
			response.InternalError(w, "Failed to compute settlement")
		}
		return
	}

	response.JSON(w, http.StatusOK, settlement)
}
