package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fintrack/pkg/middleware"
)

type memStore struct {
	mu       sync.Mutex
	profiles map[string]*Profile
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]*Profile{}}
}

func (s *memStore) GetByUserID(_ context.Context, userID string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) SaveUsername(_ context.Context, userID, username string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.profiles {
		if id != userID && p.Username == username {
			return nil, ErrUsernameTaken
		}
	}
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	p, ok := s.profiles[userID]
	if !ok {
		p = &Profile{UserID: userID, CreatedAt: now}
		s.profiles[userID] = p
	}
	p.Username = username
	p.UpdatedAt = now
	cp := *p
	return &cp, nil
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"  fkhrayef  ", "fkhrayef", nil},
		{"ab", "ab", nil},
		{"team_lead-2", "team_lead-2", nil},
		{strings.Repeat("x", 32), strings.Repeat("x", 32), nil},
		{"a", "", ErrUsernameLength},
		{"   a   ", "", ErrUsernameLength},
		{strings.Repeat("x", 33), "", ErrUsernameLength},
		{"john doe", "", ErrUsernameCharacter},
		{"josé", "", ErrUsernameCharacter},
		{"me@home", "", ErrUsernameCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateUsername(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetUsername(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	_, err := svc.Get(ctx, "alice")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	p, err := svc.SetUsername(ctx, "alice", " alice_ar ")
	require.NoError(t, err)
	assert.Equal(t, "alice_ar", p.Username)

	p, err = svc.SetUsername(ctx, "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)

	got, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.SetUsername(ctx, "bob", "alice")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.TestUserMiddleware)
	r.Mount("/profile", NewHandler(NewService(newMemStore())).Routes())

	serve := func(method, user, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/profile", strings.NewReader(body))
		req.Header.Set(middleware.TestUserHeader, user)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "alice", "").Code)

	rec := serve(http.MethodPut, "alice", `{"username":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data ProfileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.Data.Username)
	assert.Equal(t, "alice", body.Data.UserID)

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "alice", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPut, "bob", `{"username":"b"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPut, "bob", `{"username":"bob!"}`).Code)
	assert.Equal(t, http.StatusConflict, serve(http.MethodPut, "bob", `{"username":"alice"}`).Code)
}
