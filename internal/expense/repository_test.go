package expense

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/fintrack/internal/activity"
	"github.com/fkhayef/fintrack/internal/expense/split"
	"github.com/fkhayef/fintrack/internal/testutil"
)

func TestRepositoryIntegration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	activities := activity.NewRepository(db)
	a, err := activities.Create(ctx, "alice", &activity.CreateActivityRequest{Name: "Trip", CurrencyCode: "ARS"})
	require.NoError(t, err)
	ana, err := activities.AddMember(ctx, a.ID, "Ana")
	require.NoError(t, err)
	beto, err := activities.AddMember(ctx, a.ID, "Beto")
	require.NoError(t, err)

	repo := NewRepository(db)
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	created, err := repo.CreateWithSplits(ctx, &Expense{
		ActivityID:     a.ID,
		PaidByMemberID: ana.ID,
		Amount:         1001,
		Date:           date,
		SplitType:      split.SplitTypeEqual,
	}, split.EqualShares(1001, []string{beto.ID, ana.ID}))
	require.NoError(t, err)
	require.Len(t, created.Splits, 2)

	got, err := repo.GetByID(ctx, a.ID, created.Expense.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.PaidByName)
	assert.EqualValues(t, 1001, got.Amount)
	assert.Equal(t, "2025-03-14", got.Date.Format(DateLayout))

	splits, err := repo.GetSplitsByExpenseID(ctx, created.Expense.ID)
	require.NoError(t, err)
	require.Len(t, splits, 2)
	assert.Equal(t, beto.ID, splits[0].MemberID)
	assert.EqualValues(t, 501, splits[0].Amount)

	// a split naming an unknown member violates the foreign key and rolls
	// the expense back with it
	_, err = repo.CreateWithSplits(ctx, &Expense{
		ActivityID:     a.ID,
		PaidByMemberID: ana.ID,
		Amount:         500,
		Date:           date,
		SplitType:      split.SplitTypeCustom,
	}, []split.SplitOutput{{MemberID: ana.ID, Amount: 250}, {MemberID: uuid.NewString(), Amount: 250}})
	require.Error(t, err)

	expenses, err := repo.ListByActivityID(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)

	all, err := repo.ListSplitsByActivityID(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := repo.Delete(ctx, a.ID, created.Expense.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err = repo.ListSplitsByActivityID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}
