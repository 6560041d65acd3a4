package currency

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore []*Currency

func (f fakeStore) List(_ context.Context) ([]*Currency, error) {
	return f, nil
}

func (f fakeStore) GetByCode(_ context.Context, code string) (*Currency, error) {
	for _, c := range f {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

var catalog = fakeStore{
	{Code: "ARS", Name: "Argentine Peso", Symbol: "$"},
	{Code: "USD", Name: "US Dollar", Symbol: "US$"},
	{Code: "USDT", Name: "Tether", Symbol: "₮", IsCrypto: true},
}

func TestSupported(t *testing.T) {
	svc := NewService(catalog)

	for code, want := range map[string]bool{
		"ARS":   true,
		" usdt": true,
		"usd":   true,
		"EUR":   false,
		"":      false,
	} {
		got, err := svc.Supported(context.Background(), code)
		require.NoError(t, err)
		assert.Equal(t, want, got, "code %q", code)
	}
}

func TestHandlerList(t *testing.T) {
	r := chi.NewRouter()
	r.Mount("/currencies", NewHandler(NewService(catalog)).Routes())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/currencies", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []Currency `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 3)
	assert.Equal(t, "USDT", body.Data[2].Code)
	assert.True(t, body.Data[2].IsCrypto)
}
