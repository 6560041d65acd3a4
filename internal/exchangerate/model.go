package exchangerate

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is how many pesos one US dollar sells for on the blue market
type Rate struct {
	// ARSPerUSD is the "venta" quote
	ARSPerUSD decimal.Decimal `json:"ars_per_usd"`
	// UpdatedAt is when the source last changed the quote
	UpdatedAt string `json:"updated_at"`
	// FetchedAt is when this process read the quote
	FetchedAt time.Time `json:"fetched_at"`
}

// RateResponse represents the response for the USD/ARS rate
type RateResponse struct {
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt string          `json:"updated_at"`
	Stale     bool            `json:"stale"`
}

// ConversionResponse represents an amount converted to USD
type ConversionResponse struct {
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	USD         *string `json:"usd"`
	Convertible bool    `json:"convertible"`
}
