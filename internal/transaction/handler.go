package transaction

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/fintrack/internal/account"
	"github.com/fkhayef/fintrack/internal/category"
	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/request"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for transactions
type Handler struct {
	service *Service
}

// NewHandler creates a new transaction handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for transaction endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

var validationErrors = []error{
	ErrInvalidType,
	ErrInvalidAmount,
	ErrInvalidDate,
	ErrToAccountRequired,
	ErrToAccountNotAllowed,
	ErrSameAccount,
	ErrExchangeRateRequired,
	ErrInvalidExchangeRate,
}

// referenceErrors are accounts or categories named in the body that the
// user cannot use
var referenceErrors = []error{
	account.ErrAccountNotFound,
	account.ErrNotAuthorized,
	category.ErrCategoryNotFound,
	category.ErrNotAuthorized,
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			response.BadRequest(w, err.Error())
			return
		}
	}
	for _, target := range referenceErrors {
		if errors.Is(err, target) {
			response.UnprocessableEntity(w, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, ErrTransactionNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	default:
		slog.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}

// accountIDs reads account_id query values, repeated or comma separated
func accountIDs(r *http.Request) ([]string, bool) {
	var ids []string
	for _, raw := range r.URL.Query()["account_id"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, false
			}
			ids = append(ids, id.String())
		}
	}
	return ids, true
}

// Create handles POST /transactions
// @Summary      Record a transaction
// @Description  Record income, an expense, or a transfer between accounts and update balances
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request body CreateTransactionRequest true "Transaction"
// @Success      201 {object} response.APIResponse{data=TransactionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /transactions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, r, err, "Failed to record transaction")
		return
	}

	response.JSON(w, http.StatusCreated, t.ToResponse())
}

// List handles GET /transactions
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Param        account_id query string false "Account IDs, comma separated"
// @Param        type query string false "income, expense or transfer"
// @Param        date_from query string false "YYYY-MM-DD"
// @Param        date_to query string false "YYYY-MM-DD"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]TransactionResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /transactions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	ids, ok := accountIDs(r)
	if !ok {
		response.BadRequest(w, "Invalid account ID")
		return
	}

	page, perPage := request.Pagination(r)
	q := r.URL.Query()
	transactions, total, err := h.service.List(r.Context(), userID, ListParams{
		AccountIDs: ids,
		Type:       q.Get("type"),
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		writeError(w, r, err, "Failed to list transactions")
		return
	}

	resp := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		resp[i] = t.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, resp, response.NewMeta(page, perPage, total))
}

// GetByID handles GET /transactions/{id}
// @Summary      Get transaction by ID
// @Tags         transactions
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Success      200 {object} response.APIResponse{data=TransactionResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /transactions/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	t, err := h.service.GetOwned(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err, "Failed to get transaction")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse())
}

// Update handles PUT /transactions/{id}
// @Summary      Replace a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id path string true "Transaction ID"
// @Param        request body UpdateTransactionRequest true "Transaction"
// @Success      200 {object} response.APIResponse{data=TransactionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /transactions/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	var req UpdateTransactionRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeError(w, r, err, "Failed to update transaction")
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse())
}

// Delete handles DELETE /transactions/{id}
// @Summary      Delete a transaction
// @Description  Delete a transaction and revert the balance changes it made
// @Tags         transactions
// @Param        id path string true "Transaction ID"
// @Success      204
// @Failure      404 {object} response.APIResponse
// @Router       /transactions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err, "Failed to delete transaction")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
