package exchangerate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/fkhayef/fintrack/internal/money"
)

// Common errors
var (
	ErrInvalidRate     = errors.New("invalid exchange rate")
	ErrRateUnavailable = errors.New("exchange rate unavailable")
)

const usdARSKey = "usd-ars-blue"

// refreshTimeout bounds a shared refresh, which outlives the request that started it
const refreshTimeout = 15 * time.Second

// Source fetches live quotes
type Source interface {
	FetchBlue(ctx context.Context) (*Rate, error)
}

// Service serves the USD/ARS rate from cache, refreshing it from the source
// once it is older than the TTL
type Service struct {
	source Source
	cache  Cache
	ttl    time.Duration
	group  singleflight.Group
	now    func() time.Time
}

// NewService creates a new exchange rate service
func NewService(source Source, cache Cache, ttl time.Duration) *Service {
	return &Service{
		source: source,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
	}
}

// USDARS returns the blue-market rate and whether it is stale. A stale rate
// is served when refreshing fails and an older value is cached.
func (s *Service) USDARS(ctx context.Context) (*Rate, bool, error) {
	cached, err := s.cache.Get(ctx, usdARSKey)
	if err != nil {
		slog.WarnContext(ctx, "exchange rate cache read failed", "error", err)
		cached = nil
	}
	if cached != nil && s.now().Sub(cached.FetchedAt) < s.ttl {
		return cached, false, nil
	}

	ch := s.group.DoChan(usdARSKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		rate, err := s.source.FetchBlue(fetchCtx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(fetchCtx, usdARSKey, rate); err != nil {
			slog.WarnContext(fetchCtx, "exchange rate cache write failed", "error", err)
		}
		slog.InfoContext(fetchCtx, "exchange rate refreshed", "ars_per_usd", rate.ARSPerUSD.String())
		return rate, nil
	})

	var v any
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		if cached != nil {
			slog.WarnContext(ctx, "serving stale exchange rate", "fetched_at", cached.FetchedAt, "error", err)
			return cached, true, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	return v.(*Rate), false, nil
}

// USDPegged are currencies worth one US dollar
var USDPegged = map[string]bool{
	"USD":  true,
	"USDT": true,
	"USDC": true,
}

// ConvertToUSD converts amount in currency to dollars. ARS needs the
// pesos-per-dollar rate; currencies with no known conversion report false.
func ConvertToUSD(amount money.Cents, currency string, arsPerUSD *decimal.Decimal) (money.Cents, bool) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if USDPegged[currency] {
		return amount, true
	}
	if currency == "ARS" {
		if arsPerUSD == nil || !arsPerUSD.IsPositive() {
			return 0, false
		}
		return money.FromDecimal(amount.Decimal().Div(*arsPerUSD)), true
	}
	return 0, false
}
