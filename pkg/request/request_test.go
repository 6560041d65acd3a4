package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUUIDParam(t *testing.T) {
	id := uuid.NewString()

	got, ok := UUIDParam(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "activityId", id), "activityId")
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = UUIDParam(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "activityId", "42"), "activityId")
	assert.False(t, ok)
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"trip"}`))
	require.NoError(t, DecodeJSON(r, &body))
	assert.Equal(t, "trip", body.Name)

	for _, raw := range []string{`{"nme":"trip"}`, `{"name":"a"}{"name":"b"}`, `not json`} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		assert.Error(t, DecodeJSON(r, &body), raw)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query     string
		page, per int
	}{
		{"", 1, 20},
		{"?page=3&per_page=50", 3, 50},
		{"?page=-1&per_page=500", 1, 20},
		{"?page=abc", 1, 20},
	}
	for _, tt := range tests {
		page, per := Pagination(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.per, per, tt.query)
	}
}
