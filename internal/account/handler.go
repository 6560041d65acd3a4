package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/request"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for account operations
type Handler struct {
	service *Service
}

// NewHandler creates a new account handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for account endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidCurrency),
		errors.Is(err, ErrUnsupportedCurrency):
		response.BadRequest(w, err.Error())
	default:
		slog.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}

// Create handles POST /accounts
// @Summary      Create an account
// @Description  Create an account with a name, currency and opening balance
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body CreateAccountRequest true "Account creation request"
// @Success      201 {object} response.APIResponse{data=AccountResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /accounts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	a, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, r, err, "Failed to create account")
		return
	}

	response.JSON(w, http.StatusCreated, a.ToResponse())
}

// GetByID handles GET /accounts/{id}
// @Summary      Get account by ID
// @Tags         accounts
// @Produce      json
// @Param        id path string true "Account ID"
// @Success      200 {object} response.APIResponse{data=AccountResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /accounts/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid account ID")
		return
	}

	a, err := h.service.GetOwned(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err, "Failed to get account")
		return
	}

	response.JSON(w, http.StatusOK, a.ToResponse())
}

// List handles GET /accounts
// @Summary      List my accounts
// @Tags         accounts
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]AccountResponse}
// @Router       /accounts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	accounts, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "Failed to list accounts")
		return
	}

	resp := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = a.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}

// Update handles PUT /accounts/{id}
// @Summary      Update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID"
// @Param        request body UpdateAccountRequest true "Account update request"
// @Success      200 {object} response.APIResponse{data=AccountResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /accounts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	a, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeError(w, r, err, "Failed to update account")
		return
	}

	response.JSON(w, http.StatusOK, a.ToResponse())
}

// Delete handles DELETE /accounts/{id}
// @Summary      Delete an account
// @Description  Delete an account together with its transactions
// @Tags         accounts
// @Param        id path string true "Account ID"
// @Success      204
// @Failure      404 {object} response.APIResponse
// @Router       /accounts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid account ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err, "Failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
