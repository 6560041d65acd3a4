package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the DolarAPI endpoint for dollar quotes
const DefaultBaseURL = "https://dolarapi.com/v1/dolares"

// DolarAPIClient reads quotes from dolarapi.com
type DolarAPIClient struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewDolarAPIClient creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewDolarAPIClient(baseURL string, httpClient *http.Client) *DolarAPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &DolarAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		now:        time.Now,
	}
}

type quote struct {
	Compra             decimal.Decimal `json:"compra"`
	Venta              decimal.Decimal `json:"venta"`
	FechaActualizacion string          `json:"fechaActualizacion"`
}

// FetchBlue reads the blue-market quote
func (c *DolarAPIClient) FetchBlue(ctx context.Context) (*Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/blue", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build dolarapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call dolarapi: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dolarapi returned status %d", res.StatusCode)
	}

	var q quote
	if err := json.NewDecoder(res.Body).Decode(&q); err != nil {
		return nil, fmt.Errorf("failed to decode dolarapi response: %w", err)
	}
	if !q.Venta.IsPositive() {
		return nil, fmt.Errorf("%w: venta %s", ErrInvalidRate, q.Venta)
	}

	now := c.now().UTC()
	updatedAt := q.FechaActualizacion
	if updatedAt == "" {
		updatedAt = now.Format(time.RFC3339)
	}

	return &Rate{
		ARSPerUSD: q.Venta,
		UpdatedAt: updatedAt,
		FetchedAt: now,
	}, nil
}
