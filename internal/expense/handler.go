package expense

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/internal/activity"
	"github.com/fkhayef/fintrack/internal/expense/split"
	"github.com/fkhayef/fintrack/internal/money"
	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/request"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for activity expenses
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints, mounted at
// /activities/{activityId}/expenses
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{expenseId}", h.GetByID)
	r.Delete("/{expenseId}", h.Delete)

	return r
}

// validationErrors are caller mistakes reported as 400
var validationErrors = []error{
	ErrInvalidAmount,
	ErrInvalidDate,
	ErrPayerNotMember,
	ErrParticipantNotMember,
	ErrNoMembers,
	split.ErrUnknownSplitType,
	split.ErrNoParticipants,
	split.ErrDuplicateParticipant,
	split.ErrNegativeAmount,
	split.ErrMissingCustomAmount,
	split.ErrCustomSumMismatch,
	split.ErrMissingPercentage,
	split.ErrPercentageOutOfRange,
	split.ErrInvalidPercentages,
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			response.BadRequest(w, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, activity.ErrActivityNotFound), errors.Is(err, ErrExpenseNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, activity.ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	default:
		slog.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}

// Create handles POST /activities/{activityId}/expenses
// @Summary      Record an activity expense
// @Description  Record what a member paid and split it equally, by custom amounts or by percentage
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        activityId path string true "Activity ID"
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /activities/{activityId}/expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	var req CreateExpenseRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	created, err := h.service.CreateExpense(r.Context(), userID, activityID, &req)
	if err != nil {
		writeError(w, r, err, "Failed to create expense")
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// ListResponse wraps the expenses of an activity with their total
type ListResponse struct {
	Total    money.Cents        `json:"total"`
	Expenses []*ExpenseResponse `json:"expenses"`
}

// List handles GET /activities/{activityId}/expenses
// @Summary      List activity expenses
// @Tags         expenses
// @Produce      json
// @Param        activityId path string true "Activity ID"
// @Success      200 {object} response.APIResponse{data=ListResponse}
// @Router       /activities/{activityId}/expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	expenses, total, err := h.service.ListExpenses(r.Context(), userID, activityID)
	if err != nil {
		writeError(w, r, err, "Failed to list expenses")
		return
	}

	resp := &ListResponse{Total: total, Expenses: make([]*ExpenseResponse, len(expenses))}
	for i, e := range expenses {
		resp.Expenses[i] = e.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// GetByID handles GET /activities/{activityId}/expenses/{expenseId}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	expenseID, ok := request.UUIDParam(r, "expenseId")
	if !ok {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	e, err := h.service.GetExpense(r.Context(), userID, activityID, expenseID)
	if err != nil {
		writeError(w, r, err, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse())
}

// Delete handles DELETE /activities/{activityId}/expenses/{expenseId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	activityID, ok := request.UUIDParam(r, "activityId")
	if !ok {
		response.BadRequest(w, "Invalid activity ID")
		return
	}

	expenseID, ok := request.UUIDParam(r, "expenseId")
	if !ok {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), userID, activityID, expenseID); err != nil {
		writeError(w, r, err, "Failed to delete expense")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}
