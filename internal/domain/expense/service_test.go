package expense_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/app/apptest"
	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/expense"
	"ledgerpos/internal/domain/ledger"
)

func TestCreate(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	bankID := f.Bank(t, "Main", "100").ID

	e := expense.New(bankID, " rent ", apptest.M("60"), "October")
	require.NoError(t, f.Expenses.Create(ctx, e))

	assert.Equal(t, "rent", e.Category)
	apptest.AssertMoney(t, "40", f.Balance(t, bankID))

	entries, err := ledger.New(f.Store.Ledger()).FindByOrigin(ctx, ledger.OriginExpense, e.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.TypeExpense, entries[0].Type)

	list, err := f.Expenses.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
}

func TestCreate_Rejections(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	bankID := f.Bank(t, "Main", "100").ID

	err := f.Expenses.Create(ctx, expense.New(bankID, "rent", apptest.M("100.5"), ""))
	assert.True(t, apperror.IsInsufficientFunds(err))

	err = f.Expenses.Create(ctx, expense.New(bankID, "", apptest.M("1"), ""))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	err = f.Expenses.Create(ctx, expense.New(bankID, "rent", apptest.M("0"), ""))
	assert.True(t, apperror.IsInvalidAmount(err))

	err = f.Expenses.Create(ctx, expense.New(id.New(), "rent", apptest.M("1"), ""))
	assert.True(t, apperror.IsNotFound(err))

	apptest.AssertMoney(t, "100", f.Balance(t, bankID))
	list, err := f.Expenses.List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestDelete(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	bankID := f.Bank(t, "Main", "100").ID

	e := expense.New(bankID, "services", apptest.M("25"), "")
	require.NoError(t, f.Expenses.Create(ctx, e))

	removed, err := f.Expenses.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	apptest.AssertMoney(t, "100", f.Balance(t, bankID))

	entries, err := ledger.New(f.Store.Ledger()).FindByOrigin(ctx, ledger.OriginExpense, e.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	history, err := f.Audit.History(ctx, "expense", e.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionDelete, history[0].Action)
	assert.Equal(t, "system", history[0].Operator)

	removed, err = f.Expenses.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
