//go:build integration

package transaction

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studianta/studianta/internal/test_utils"
)

var pg *test_utils.Postgres

func TestMain(m *testing.M) {
	pg = test_utils.StartPostgres()
	code := m.Run()
	pg.Terminate()
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl, int) {
	require.NoError(t, pg.Reset())
	ctx := context.Background()
	userId := test_utils.InsertUser(t, ctx, pg.Pool(), "student-1")
	return ctx, NewRepository(pg.Pool()), userId
}

func TestRepositoryImpl_StoreMaterialized_IsIdempotent(t *testing.T) {
	// given
	ctx, repo, userId := setupTestRepository(t)
	_, err := pg.Pool().Exec(ctx, `INSERT INTO recurring_transaction
		(id, user_id, start_date, frequency, repeat_every, type, category, amount, description)
		VALUES ('groceries', $1, '2024-03-04', 'weekly', 1, 'expense', 'Food', 20.50, 'Weekly shop')`, userId)
	require.NoError(t, err)
	templates, err := repo.GetRecurringTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.True(t, decimal.RequireFromString("20.5").Equal(templates[0].Amount))
	due, err := templates[0].Due(materializeNow)
	require.NoError(t, err)

	// when
	first, err := repo.StoreMaterialized(ctx, userId, due)
	require.NoError(t, err)
	second, err := repo.StoreMaterialized(ctx, userId, due)
	require.NoError(t, err)

	// then
	assert.Equal(t, 3, first)
	assert.Equal(t, 0, second)
	stored, err := repo.GetTransactions(ctx, userId)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "groceries-20240304", stored[0].Id)
	assert.Equal(t, "groceries", stored[0].RecurringId)
	assert.Equal(t, Expense, stored[0].Type)
	assert.True(t, decimal.RequireFromString("20.50").Equal(stored[0].Amount))
}
