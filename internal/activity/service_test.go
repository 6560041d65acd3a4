package activity

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store
type memStore struct {
	mu         sync.Mutex
	activities map[string]*Activity
	members    []*Member
	busy       map[string]bool
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		activities: map[string]*Activity{},
		busy:       map[string]bool{},
		clock:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) Create(_ context.Context, ownerID string, req *CreateActivityRequest) (*Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &Activity{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Name:         req.Name,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		CreatedAt:    s.tick(),
	}
	s.activities[a.ID] = a
	return a, nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) ListByOwnerID(_ context.Context, ownerID string, limit, offset int) ([]*Activity, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*Activity
	for _, a := range s.activities {
		if a.OwnerID == ownerID {
			all = append(all, a)
		}
	}
	total := len(all)
	if offset > total {
		offset = total
	}
	return all[offset:min(offset+limit, total)], total, nil
}

func (s *memStore) Update(_ context.Context, id string, req *UpdateActivityRequest) (*Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	if !ok {
		return nil, nil
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.CurrencyCode != nil {
		a.CurrencyCode = *req.CurrencyCode
	}
	return a, nil
}

func (s *memStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.activities[id]
	delete(s.activities, id)
	return ok, nil
}

func (s *memStore) AddMember(_ context.Context, activityID, name string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &Member{ID: uuid.NewString(), ActivityID: activityID, Name: name, CreatedAt: s.tick()}
	s.members = append(s.members, m)
	return m, nil
}

func (s *memStore) ListMembers(_ context.Context, activityID string) ([]*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*Member{}
	for _, m := range s.members {
		if m.ActivityID == activityID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) GetMember(_ context.Context, activityID, memberID string) (*Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.ActivityID == activityID && m.ID == memberID {
			return m, nil
		}
	}
	return nil, nil
}

func (s *memStore) UpdateMember(ctx context.Context, activityID, memberID, name string) (*Member, error) {
	m, _ := s.GetMember(ctx, activityID, memberID)
	if m == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Name = name
	return m, nil
}

func (s *memStore) MemberHasExpenses(_ context.Context, memberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[memberID], nil
}

func (s *memStore) markBusy(memberID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[memberID] = true
}

func (s *memStore) RemoveMember(_ context.Context, activityID, memberID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.ActivityID == activityID && m.ID == memberID {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// catalog stands in for the currency catalog
type catalog map[string]bool

func (c catalog) Supported(_ context.Context, code string) (bool, error) {
	return c[code], nil
}

var currencies = catalog{"ARS": true, "USD": true, "USDT": true, "EUR": true}

func TestCreateActivity(t *testing.T) {
	svc := NewService(newMemStore(), currencies)
	ctx := context.Background()

	a, err := svc.Create(ctx, "owner", &CreateActivityRequest{Name: "  Bariloche trip "})
	require.NoError(t, err)
	assert.Equal(t, "Bariloche trip", a.Name)
	assert.Equal(t, DefaultCurrency, a.CurrencyCode)

	a, err = svc.Create(ctx, "owner", &CreateActivityRequest{Name: "NYC", CurrencyCode: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "USD", a.CurrencyCode)

	_, err = svc.Create(ctx, "owner", &CreateActivityRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(ctx, "owner", &CreateActivityRequest{Name: "x", CurrencyCode: "US1"})
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = svc.Create(ctx, "owner", &CreateActivityRequest{Name: "x", CurrencyCode: "JPY"})
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestOwnership(t *testing.T) {
	svc := NewService(newMemStore(), currencies)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", &CreateActivityRequest{Name: "Dinner"})
	require.NoError(t, err)

	_, err = svc.GetOwned(ctx, "bob", a.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = svc.GetOwned(ctx, "alice", uuid.NewString())
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = svc.AddMember(ctx, "bob", a.ID, &AddMemberRequest{Name: "Bob"})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = svc.Delete(ctx, "bob", a.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, svc.Delete(ctx, "alice", a.ID))
	_, err = svc.GetOwned(ctx, "alice", a.ID)
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestMembersKeepInsertionOrder(t *testing.T) {
	svc := NewService(newMemStore(), currencies)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", &CreateActivityRequest{Name: "Dinner"})
	require.NoError(t, err)

	names := []string{"Carla", "Ana", "Beto"}
	for _, n := range names {
		_, err := svc.AddMember(ctx, "alice", a.ID, &AddMemberRequest{Name: n})
		require.NoError(t, err)
	}

	_, members, err := svc.GetWithMembers(ctx, "alice", a.ID)
	require.NoError(t, err)
	require.Len(t, members, 3)
	for i, m := range members {
		assert.Equal(t, names[i], m.Name)
	}
}

func TestRemoveMember(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, currencies)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", &CreateActivityRequest{Name: "Dinner"})
	require.NoError(t, err)
	payer, err := svc.AddMember(ctx, "alice", a.ID, &AddMemberRequest{Name: "Ana"})
	require.NoError(t, err)
	idle, err := svc.AddMember(ctx, "alice", a.ID, &AddMemberRequest{Name: "Beto"})
	require.NoError(t, err)
	store.markBusy(payer.ID)

	err = svc.RemoveMember(ctx, "alice", a.ID, payer.ID)
	assert.ErrorIs(t, err, ErrMemberHasExpenses)

	require.NoError(t, svc.RemoveMember(ctx, "alice", a.ID, idle.ID))

	err = svc.RemoveMember(ctx, "alice", a.ID, idle.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	members, err := svc.GetMembers(ctx, "alice", a.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestUpdateActivity(t *testing.T) {
	svc := NewService(newMemStore(), currencies)
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice", &CreateActivityRequest{Name: "Dinner"})
	require.NoError(t, err)

	name, code := "Team dinner", "usd"
	updated, err := svc.Update(ctx, "alice", a.ID, &UpdateActivityRequest{Name: &name, CurrencyCode: &code})
	require.NoError(t, err)
	assert.Equal(t, "Team dinner", updated.Name)
	assert.Equal(t, "USD", updated.CurrencyCode)

	blank := " "
	_, err = svc.Update(ctx, "alice", a.ID, &UpdateActivityRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)

	gold := "XAU"
	_, err = svc.Update(ctx, "alice", a.ID, &UpdateActivityRequest{CurrencyCode: &gold})
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestListPagination(t *testing.T) {
	svc := NewService(newMemStore(), currencies)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, "alice", &CreateActivityRequest{Name: fmt.Sprintf("a%d", i)})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "bob", &CreateActivityRequest{Name: "other"})
	require.NoError(t, err)

	page, total, err := svc.List(ctx, "alice", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 2)

	// out-of-range sizes fall back to the default
	page, _, err = svc.List(ctx, "alice", 0, 1000)
	require.NoError(t, err)
	assert.Len(t, page, 5)
}
