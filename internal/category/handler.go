package category

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/request"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for category operations
type Handler struct {
	service *Service
}

// NewHandler creates a new category handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for category endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/defaults", h.SeedDefaults)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrInvalidClassification):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrDuplicateName):
		response.Conflict(w, err.Error())
	default:
		slog.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}

func toResponses(categories []*Category) []*CategoryResponse {
	resp := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = c.ToResponse()
	}
	return resp
}

// Create handles POST /categories
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body CreateCategoryRequest true "Category creation request"
// @Success      201 {object} response.APIResponse{data=CategoryResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /categories [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	c, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, r, err, "Failed to create category")
		return
	}

	response.JSON(w, http.StatusCreated, c.ToResponse())
}

// List handles GET /categories
// @Summary      List my categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]CategoryResponse}
// @Router       /categories [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	categories, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "Failed to list categories")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(categories))
}

// SeedDefaults handles POST /categories/defaults
// @Summary      Seed default categories
// @Description  Add the starter categories the user does not have yet
// @Tags         categories
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]CategoryResponse}
// @Router       /categories/defaults [post]
func (h *Handler) SeedDefaults(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	categories, err := h.service.SeedDefaults(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "Failed to seed categories")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(categories))
}

// GetByID handles GET /categories/{id}
// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} response.APIResponse{data=CategoryResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /categories/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	c, err := h.service.GetOwned(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err, "Failed to get category")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// Update handles PUT /categories/{id}
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID"
// @Param        request body UpdateCategoryRequest true "Category update request"
// @Success      200 {object} response.APIResponse{data=CategoryResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /categories/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	c, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeError(w, r, err, "Failed to update category")
		return
	}

	response.JSON(w, http.StatusOK, c.ToResponse())
}

// Delete handles DELETE /categories/{id}
// @Summary      Delete a category
// @Tags         categories
// @Param        id path string true "Category ID"
// @Success      204
// @Failure      404 {object} response.APIResponse
// @Router       /categories/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	id, ok := request.UUIDParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
