package exchangerate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fintrack/internal/money"
)

type fakeSource struct {
	calls atomic.Int32
	rate  string
	err   error
	clock func() time.Time
}

func (f *fakeSource) FetchBlue(_ context.Context) (*Rate, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &Rate{ARSPerUSD: decimal.RequireFromString(f.rate), UpdatedAt: "now", FetchedAt: f.clock()}, nil
}

type fixture struct {
	svc    *Service
	source *fakeSource
	now    time.Time
}

func newFixture() *fixture {
	f := &fixture{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	f.source = &fakeSource{rate: "1200", clock: clock}
	f.svc = NewService(f.source, NewMemoryCache(), time.Hour)
	f.svc.now = clock
	return f
}

func TestUSDARSCaching(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	rate, stale, err := f.svc.USDARS(ctx)
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, "1200", rate.ARSPerUSD.String())

	f.source.rate = "1300"
	f.now = f.now.Add(59 * time.Minute)
	rate, _, err = f.svc.USDARS(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1200", rate.ARSPerUSD.String(), "served from cache within the TTL")
	assert.EqualValues(t, 1, f.source.calls.Load())

	f.now = f.now.Add(2 * time.Minute)
	rate, _, err = f.svc.USDARS(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1300", rate.ARSPerUSD.String(), "refreshed once expired")
	assert.EqualValues(t, 2, f.source.calls.Load())
}

func TestUSDARSStaleFallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, _, err := f.svc.USDARS(ctx)
	require.NoError(t, err)

	f.source.err = errors.New("dolarapi returned status 503")
	f.now = f.now.Add(3 * time.Hour)

	rate, stale, err := f.svc.USDARS(ctx)
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, "1200", rate.ARSPerUSD.String())
}

func TestUSDARSUnavailable(t *testing.T) {
	f := newFixture()
	f.source.err = errors.New("connection refused")

	_, _, err := f.svc.USDARS(context.Background())
	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestUSDARSConcurrentCallers(t *testing.T) {
	f := newFixture()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.svc.USDARS(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, f.source.calls.Load(), int32(20))
	rate, _, err := f.svc.USDARS(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1200", rate.ARSPerUSD.String())
}

// slowSource blocks each fetch until released, recording whether its
// context was cancelled first
type slowSource struct {
	started  chan struct{}
	release  chan struct{}
	canceled atomic.Bool
	now      time.Time
}

func (s *slowSource) FetchBlue(ctx context.Context) (*Rate, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
		return &Rate{ARSPerUSD: decimal.RequireFromString("1200"), FetchedAt: s.now}, nil
	case <-ctx.Done():
		s.canceled.Store(true)
		return nil, ctx.Err()
	}
}

func TestUSDARSRefreshSurvivesCancelledCaller(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	source := &slowSource{started: make(chan struct{}, 1), release: make(chan struct{}), now: now}
	svc := NewService(source, NewMemoryCache(), time.Hour)
	svc.now = func() time.Time { return now }

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, _, err := svc.USDARS(leaderCtx)
		leaderErr <- err
	}()
	<-source.started

	type result struct {
		rate *Rate
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		rate, _, err := svc.USDARS(context.Background())
		follower <- result{rate, err}
	}()

	cancel()
	assert.ErrorIs(t, <-leaderErr, ErrRateUnavailable, "the cancelled caller gives up")

	time.Sleep(20 * time.Millisecond)
	close(source.release)

	got := <-follower
	require.NoError(t, got.err)
	assert.Equal(t, "1200", got.rate.ARSPerUSD.String())
	assert.False(t, source.canceled.Load(), "shared refresh must not inherit the caller's cancellation")
}

func TestConvertToUSD(t *testing.T) {
	rate := decimal.RequireFromString("1250")
	zero := decimal.Zero

	tests := []struct {
		name     string
		amount   string
		currency string
		rate     *decimal.Decimal
		want     string
		ok       bool
	}{
		{"dollars", "100.00", "USD", nil, "100.00", true},
		{"tether", "42.10", "usdt", nil, "42.10", true},
		{"usdc", "1.00", "USDC", &rate, "1.00", true},
		{"pesos", "125000.00", "ARS", &rate, "100.00", true},
		{"tiny peso amount rounds to zero", "0.50", "ARS", &rate, "0.00", true},
		{"pesos without rate", "100.00", "ARS", nil, "", false},
		{"pesos with zero rate", "100.00", "ARS", &zero, "", false},
		{"euros", "100.00", "EUR", &rate, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertToUSD(money.MustParse(tt.amount), tt.currency, tt.rate)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestHandler(t *testing.T) {
	serve := func(f *fixture, path string) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		r.Mount("/exchange-rates", NewHandler(f.svc).Routes())
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	f := newFixture()
	rec := serve(f, "/exchange-rates/usd-ars")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rate":"1200"`)
	assert.Contains(t, rec.Body.String(), `"stale":false`)

	rec = serve(f, "/exchange-rates/convert?amount=2400&currency=ars")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"usd":"2.00"`)

	rec = serve(f, "/exchange-rates/convert?amount=10&currency=EUR")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"convertible":false`)

	rec = serve(f, "/exchange-rates/convert?amount=abc&currency=USD")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	down := newFixture()
	down.source.err = errors.New("timeout")
	rec = serve(down, "/exchange-rates/usd-ars")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
