package report

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/fintrack/internal/transaction"
	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for reports
type Handler struct {
	service *Service
}

// NewHandler creates a new report handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for report endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", h.Summary)

	return r
}

// Summary handles GET /reports/summary
// @Summary      Financial summary
// @Description  Income and expenses per account, expenses by classification, and balances in USD
// @Tags         reports
// @Produce      json
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to query string false "YYYY-MM-DD"
// @Param        account_id query string false "Account IDs, comma separated"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      400 {object} response.APIResponse
// @Router       /reports/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var ids []string
	for _, raw := range q["account_id"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				response.BadRequest(w, "Invalid account ID")
				return
			}
			ids = append(ids, id.String())
		}
	}

	summary, err := h.service.Summary(r.Context(), userID, Params{
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		AccountID: ids,
	})
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidDate) {
			response.BadRequest(w, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "failed to build summary", "error", err)
		response.InternalError(w, "Failed to build summary")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
