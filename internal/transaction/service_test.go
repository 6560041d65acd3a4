package transaction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fintrack/internal/account"
	"github.com/fkhayef/fintrack/internal/category"
	"github.com/fkhayef/fintrack/internal/money"
	"github.com/fkhayef/fintrack/pkg/middleware"
)

type fakeAccounts map[string]*account.Account

func (f fakeAccounts) GetOwned(_ context.Context, userID, id string) (*account.Account, error) {
	a, ok := f[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	if a.OwnerID != userID {
		return nil, account.ErrNotAuthorized
	}
	return a, nil
}

type fakeCategories map[string]*category.Category

func (f fakeCategories) GetOwned(_ context.Context, userID, id string) (*category.Category, error) {
	c, ok := f[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	if c.OwnerID != userID {
		return nil, category.ErrNotAuthorized
	}
	return c, nil
}

// fakeStore keeps transactions and applies balance changes to the fake accounts
type fakeStore struct {
	accounts     fakeAccounts
	transactions map[string]*Transaction
	lastFilter   Filter
}

func (s *fakeStore) apply(changes []BalanceChange) {
	for _, c := range changes {
		s.accounts[c.AccountID].Balance += c.Delta
	}
}

func (s *fakeStore) Create(_ context.Context, t *Transaction) (*Transaction, error) {
	cp := *t
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	s.transactions[cp.ID] = &cp
	s.apply(cp.BalanceChanges())
	return &cp, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*Transaction, error) {
	return s.transactions[id], nil
}

func (s *fakeStore) List(_ context.Context, ownerID string, f Filter) ([]*Transaction, int, error) {
	s.lastFilter = f
	out := []*Transaction{}
	for _, t := range s.transactions {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, len(out), nil
}

func (s *fakeStore) Update(_ context.Context, id string, t *Transaction) (*Transaction, error) {
	old, ok := s.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	s.apply(Reverse(old.BalanceChanges()))
	cp := *t
	cp.ID = id
	s.transactions[cp.ID] = &cp
	s.apply(cp.BalanceChanges())
	return &cp, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) (*Transaction, error) {
	t, ok := s.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	delete(s.transactions, id)
	s.apply(Reverse(t.BalanceChanges()))
	return t, nil
}

const (
	pesos   = "9a7c1e52-0c1f-4b8e-9d3a-6f2b7e4c1a01"
	dollars = "9a7c1e52-0c1f-4b8e-9d3a-6f2b7e4c1a02"
	savings = "9a7c1e52-0c1f-4b8e-9d3a-6f2b7e4c1a03"
	foreign = "9a7c1e52-0c1f-4b8e-9d3a-6f2b7e4c1a04"
	grocery = "4b1d2c3e-5f60-4718-8a9b-0c1d2e3f4a50"
)

func newFixture() (*Service, *fakeStore) {
	accounts := fakeAccounts{
		pesos:   {ID: pesos, OwnerID: "alice", CurrencyCode: "ARS", Balance: 10000000},
		dollars: {ID: dollars, OwnerID: "alice", CurrencyCode: "USD"},
		savings: {ID: savings, OwnerID: "alice", CurrencyCode: "ARS"},
		foreign: {ID: foreign, OwnerID: "bob", CurrencyCode: "ARS"},
	}
	categories := fakeCategories{
		grocery: {ID: grocery, OwnerID: "alice", Name: "Groceries"},
	}
	store := &fakeStore{accounts: accounts, transactions: map[string]*Transaction{}}
	svc := NewService(store, accounts, categories)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 18, 30, 0, 0, time.Local) }
	return svc, store
}

func ptr[T any](v T) *T { return &v }

func TestCreateValidation(t *testing.T) {
	rate := decimal.RequireFromString("0.00082")
	zero := decimal.Zero

	tests := []struct {
		name    string
		req     CreateTransactionRequest
		wantErr error
	}{
		{"unknown type", CreateTransactionRequest{Type: "refund", AccountID: pesos, Amount: 100}, ErrInvalidType},
		{"zero amount", CreateTransactionRequest{Type: "income", AccountID: pesos}, ErrInvalidAmount},
		{"bad date", CreateTransactionRequest{Type: "income", AccountID: pesos, Amount: 100, Date: "15/06/2025"}, ErrInvalidDate},
		{"someone else's account", CreateTransactionRequest{Type: "expense", AccountID: foreign, Amount: 100}, account.ErrNotAuthorized},
		{"missing account", CreateTransactionRequest{Type: "expense", AccountID: uuid.NewString(), Amount: 100}, account.ErrAccountNotFound},
		{"transfer without destination", CreateTransactionRequest{Type: "transfer", AccountID: pesos, Amount: 100}, ErrToAccountRequired},
		{"transfer to itself", CreateTransactionRequest{Type: "transfer", AccountID: pesos, ToAccountID: ptr(pesos), Amount: 100}, ErrSameAccount},
		{"cross-currency without rate", CreateTransactionRequest{Type: "transfer", AccountID: pesos, ToAccountID: ptr(dollars), Amount: 100}, ErrExchangeRateRequired},
		{"non-positive rate", CreateTransactionRequest{Type: "transfer", AccountID: pesos, ToAccountID: ptr(dollars), Amount: 100, ExchangeRate: &zero}, ErrInvalidExchangeRate},
		{"income with destination", CreateTransactionRequest{Type: "income", AccountID: pesos, ToAccountID: ptr(savings), Amount: 100}, ErrToAccountNotAllowed},
		{"unknown category", CreateTransactionRequest{Type: "expense", AccountID: pesos, CategoryID: ptr(uuid.NewString()), Amount: 100}, category.ErrCategoryNotFound},
		{"valid cross-currency", CreateTransactionRequest{Type: "transfer", AccountID: pesos, ToAccountID: ptr(dollars), Amount: 100, ExchangeRate: &rate}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newFixture()
			_, err := svc.Create(context.Background(), "alice", &tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateMovesBalances(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture()

	spent, err := svc.Create(ctx, "alice", &CreateTransactionRequest{
		Type: "expense", AccountID: pesos, CategoryID: ptr(grocery), Amount: money.MustParse("25000.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), spent.Date, "date defaults to today")
	assert.Equal(t, grocery, *spent.CategoryID)
	assert.Equal(t, money.MustParse("74999.50"), store.accounts[pesos].Balance)

	rate := decimal.RequireFromString("0.001")
	_, err = svc.Create(ctx, "alice", &CreateTransactionRequest{
		Type: "transfer", AccountID: pesos, ToAccountID: ptr(dollars), Amount: money.MustParse("50000"), ExchangeRate: &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, money.MustParse("24999.50"), store.accounts[pesos].Balance)
	assert.Equal(t, money.MustParse("50"), store.accounts[dollars].Balance)

	same, err := svc.Create(ctx, "alice", &CreateTransactionRequest{
		Type: "transfer", AccountID: pesos, ToAccountID: ptr(savings), Amount: 999, ExchangeRate: &rate,
	})
	require.NoError(t, err)
	assert.Nil(t, same.ExchangeRate, "same-currency transfers ignore the rate")
	assert.Equal(t, money.Cents(999), store.accounts[savings].Balance)

	require.NoError(t, svc.Delete(ctx, "alice", same.ID))
	assert.Zero(t, store.accounts[savings].Balance)
	assert.Equal(t, money.MustParse("24999.50"), store.accounts[pesos].Balance)

	assert.ErrorIs(t, svc.Delete(ctx, "alice", same.ID), ErrTransactionNotFound)
	assert.Equal(t, money.MustParse("24999.50"), store.accounts[pesos].Balance)
}

func TestUpdateRebalances(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture()

	tx, err := svc.Create(ctx, "alice", &CreateTransactionRequest{Type: "expense", AccountID: pesos, Amount: 5000})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", tx.ID, &UpdateTransactionRequest{Type: "income", AccountID: savings, Amount: 700})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10000000), store.accounts[pesos].Balance)
	assert.Equal(t, money.Cents(700), store.accounts[savings].Balance)

	_, err = svc.Update(ctx, "bob", tx.ID, &UpdateTransactionRequest{Type: "income", AccountID: foreign, Amount: 1})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestHandlerStatusCodes(t *testing.T) {
	svc, store := newFixture()
	r := chi.NewRouter()
	r.Use(middleware.TestUserMiddleware)
	r.Mount("/transactions", NewHandler(svc).Routes())

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(middleware.TestUserHeader, "alice")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(http.MethodPost, "/transactions", `{"type":"income","account_id":"`+pesos+`","amount":"1500.25","date":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"amount":1500.25`)

	rec = serve(http.MethodPost, "/transactions", `{"type":"transfer","account_id":"`+pesos+`","amount":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(http.MethodPost, "/transactions", `{"type":"income","account_id":"`+foreign+`","amount":10}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(http.MethodGet, "/transactions?account_id="+pesos+","+dollars+"&date_from=2025-06-30&date_to=2025-06-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{pesos, dollars}, store.lastFilter.AccountIDs)
	assert.Equal(t, "2025-06-01", store.lastFilter.DateFrom.Format(DateLayout))

	rec = serve(http.MethodGet, "/transactions?account_id=nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(http.MethodGet, "/transactions/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
