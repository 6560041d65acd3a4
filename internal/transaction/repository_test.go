package transaction

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fintrack/internal/account"
	"github.com/fkhayef/fintrack/internal/category"
	"github.com/fkhayef/fintrack/internal/money"
	"github.com/fkhayef/fintrack/internal/testutil"
)

func TestRepositoryIntegration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewRepository(db)
	accounts := account.NewRepository(db)
	categories := category.NewRepository(db)

	pesos, err := accounts.Create(ctx, "alice", &account.CreateAccountRequest{Name: "Pesos", CurrencyCode: "ARS", Balance: money.MustParse("1000")})
	require.NoError(t, err)
	dollars, err := accounts.Create(ctx, "alice", &account.CreateAccountRequest{Name: "Dollars", CurrencyCode: "USD"})
	require.NoError(t, err)
	rent, err := categories.Create(ctx, "alice", "Rent", nil)
	require.NoError(t, err)
	fixed := category.ClassificationFixed
	_, err = categories.Update(ctx, rent.ID, nil, true, &fixed)
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC) }
	balance := func(id string) money.Cents {
		a, err := accounts.GetByID(ctx, id)
		require.NoError(t, err)
		return a.Balance
	}

	_, err = repo.Create(ctx, &Transaction{OwnerID: "alice", Type: TypeIncome, AccountID: pesos.ID, Amount: money.MustParse("500"), Date: day(1)})
	require.NoError(t, err)
	paidRent, err := repo.Create(ctx, &Transaction{OwnerID: "alice", Type: TypeExpense, AccountID: pesos.ID, CategoryID: &rent.ID, Amount: money.MustParse("300"), Date: day(5)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &Transaction{OwnerID: "alice", Type: TypeExpense, AccountID: pesos.ID, Amount: money.MustParse("20"), Date: day(6)})
	require.NoError(t, err)

	rate := decimal.RequireFromString("0.001")
	swap, err := repo.Create(ctx, &Transaction{OwnerID: "alice", Type: TypeTransfer, AccountID: pesos.ID, ToAccountID: &dollars.ID, Amount: money.MustParse("1000"), ExchangeRate: &rate, Date: day(10)})
	require.NoError(t, err)
	require.NotNil(t, swap.ExchangeRate)
	assert.True(t, rate.Equal(*swap.ExchangeRate))
	assert.Equal(t, day(10), swap.Date.UTC())

	assert.Equal(t, money.MustParse("180"), balance(pesos.ID))
	assert.Equal(t, money.MustParse("1"), balance(dollars.ID))

	t.Run("filters", func(t *testing.T) {
		all, total, err := repo.List(ctx, "alice", Filter{})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Equal(t, swap.ID, all[0].ID, "newest first")

		byAccount, _, err := repo.List(ctx, "alice", Filter{AccountIDs: []string{dollars.ID}})
		require.NoError(t, err)
		require.Len(t, byAccount, 1, "destination account matches too")

		from, to := day(2), day(6)
		ranged, total, err := repo.List(ctx, "alice", Filter{Type: TypeExpense, DateFrom: &from, DateTo: &to, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, ranged, 1)

		none, _, err := repo.List(ctx, "bob", Filter{})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("aggregates", func(t *testing.T) {
		totals, err := repo.Totals(ctx, "alice", Filter{})
		require.NoError(t, err)
		require.Len(t, totals, 1)
		assert.Equal(t, money.MustParse("500"), totals[0].Income)
		assert.Equal(t, money.MustParse("320"), totals[0].Expense)

		groups, err := repo.ExpensesByClassification(ctx, "alice", Filter{})
		require.NoError(t, err)
		assert.Equal(t, map[string]money.Cents{"fixed": 30000, "": 2000}, groups)
	})

	t.Run("update and delete revert balances", func(t *testing.T) {
		changed := *paidRent
		changed.Amount = money.MustParse("250")
		_, err := repo.Update(ctx, paidRent.ID, &changed)
		require.NoError(t, err)
		assert.Equal(t, money.MustParse("230"), balance(pesos.ID))

		deleted, err := repo.Delete(ctx, swap.ID)
		require.NoError(t, err)
		assert.Equal(t, swap.ID, deleted.ID)
		assert.Equal(t, money.MustParse("1230"), balance(pesos.ID))
		assert.Zero(t, balance(dollars.ID))

		gone, err := repo.GetByID(ctx, swap.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("second delete of the same transaction reverts nothing", func(t *testing.T) {
		coffee, err := repo.Create(ctx, &Transaction{OwnerID: "alice", Type: TypeExpense, AccountID: pesos.ID, Amount: money.MustParse("30"), Date: day(12)})
		require.NoError(t, err)
		assert.Equal(t, money.MustParse("1200"), balance(pesos.ID))

		_, err = repo.Delete(ctx, coffee.ID)
		require.NoError(t, err)
		_, err = repo.Delete(ctx, coffee.ID)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		assert.Equal(t, money.MustParse("1230"), balance(pesos.ID))

		_, err = repo.Update(ctx, coffee.ID, coffee)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		assert.Equal(t, money.MustParse("1230"), balance(pesos.ID))
	})

	t.Run("concurrent deletes revert once", func(t *testing.T) {
		lunch, err := repo.Create(ctx, &Transaction{OwnerID: "alice", Type: TypeExpense, AccountID: pesos.ID, Amount: money.MustParse("45"), Date: day(13)})
		require.NoError(t, err)
		assert.Equal(t, money.MustParse("1185"), balance(pesos.ID))

		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Delete(ctx, lunch.ID)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrTransactionNotFound)
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, money.MustParse("1230"), balance(pesos.ID))
	})
}
