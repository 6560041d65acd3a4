package currency

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for the currency catalog
type Handler struct {
	service *Service
}

// NewHandler creates a new currency handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for currency endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	return r
}

// List handles GET /currencies
// @Summary      List supported currencies
// @Description  Currencies accounts and activities can be kept in, ordered by code
// @Tags         currencies
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]Currency}
// @Router       /currencies [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.service.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list currencies", "error", err)
		response.InternalError(w, "Failed to list currencies")
		return
	}

	response.JSON(w, http.StatusOK, currencies)
}
