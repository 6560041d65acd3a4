package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/pkg/middleware"
	"github.com/fkhayef/fintrack/pkg/request"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for the caller's profile
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for profile endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)
	r.Put("/", h.Update)

	return r
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrUsernameLength), errors.Is(err, ErrUsernameCharacter):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrUsernameTaken):
		response.Conflict(w, err.Error())
	default:
		slog.ErrorContext(r.Context(), fallback, "error", err)
		response.InternalError(w, fallback)
	}
}

// Get handles GET /profile
// @Summary      Get my profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Update handles PUT /profile
// @Summary      Set my username
// @Description  Create the profile or change its username
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Username"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /profile [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUser(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.SetUsername(r.Context(), userID, req.Username)
	if err != nil {
		writeError(w, r, err, "Failed to update profile")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}
