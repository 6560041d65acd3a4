package exchangerate

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fintrack/internal/money"
	"github.com/fkhayef/fintrack/pkg/response"
)

// Handler handles HTTP requests for exchange rates
type Handler struct {
	service *Service
}

// NewHandler creates a new exchange rate handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for exchange rate endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/usd-ars", h.GetUSDARS)
	r.Get("/convert", h.Convert)

	return r
}

func (h *Handler) writeRateError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrRateUnavailable) {
		slog.WarnContext(r.Context(), "exchange rate unavailable", "error", err)
		response.BadGateway(w, "Exchange rate source unavailable")
		return
	}
	slog.ErrorContext(r.Context(), "failed to get exchange rate", "error", err)
	response.InternalError(w, "Failed to get exchange rate")
}

// GetUSDARS handles GET /exchange-rates/usd-ars
// @Summary      Blue dollar rate
// @Description  Pesos per US dollar on the blue market, cached for an hour
// @Tags         exchange-rates
// @Produce      json
// @Success      200 {object} response.APIResponse{data=RateResponse}
// @Failure      502 {object} response.APIResponse
// @Router       /exchange-rates/usd-ars [get]
func (h *Handler) GetUSDARS(w http.ResponseWriter, r *http.Request) {
	rate, stale, err := h.service.USDARS(r.Context())
	if err != nil {
		h.writeRateError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, &RateResponse{
		Rate:      rate.ARSPerUSD,
		UpdatedAt: rate.UpdatedAt,
		Stale:     stale,
	})
}

// Convert handles GET /exchange-rates/convert?amount=&currency=
// @Summary      Convert to USD
// @Tags         exchange-rates
// @Produce      json
// @Param        amount query string true "Amount"
// @Param        currency query string true "Currency code"
// @Success      200 {object} response.APIResponse{data=ConversionResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /exchange-rates/convert [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	amount, err := money.Parse(r.URL.Query().Get("amount"))
	if err != nil {
		response.BadRequest(w, "Invalid amount")
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if !money.ValidCurrencyCode(currency) {
		response.BadRequest(w, "Invalid currency")
		return
	}

	resp := &ConversionResponse{Amount: amount.String(), Currency: currency}

	var usd money.Cents
	if currency == "ARS" {
		rate, _, err := h.service.USDARS(r.Context())
		if err != nil {
			h.writeRateError(w, r, err)
			return
		}
		usd, resp.Convertible = ConvertToUSD(amount, currency, &rate.ARSPerUSD)
	} else {
		usd, resp.Convertible = ConvertToUSD(amount, currency, nil)
	}
	if resp.Convertible {
		s := usd.String()
		resp.USD = &s
	}

	response.JSON(w, http.StatusOK, resp)
}
