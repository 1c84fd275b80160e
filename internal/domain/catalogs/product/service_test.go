package product_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/app/apptest"
	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/sale"
)

func ptr[T any](v T) *T { return &v }

func TestUpdate_KeepsQuantityAndAudits(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	p := f.Product(t, "P-1", 7, "3", "5")

	got, err := f.Products.Update(ctx, p.ID, product.Changes{
		Description: ptr("  Dark roast  "),
		SalePrice:   ptr(apptest.M("6.5")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dark roast", got.Description)
	assert.Equal(t, "P-1", got.Reference)
	apptest.AssertMoney(t, "6.5", got.SalePrice)

	stored, err := f.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stored.Quantity)
	apptest.AssertMoney(t, "3", stored.PurchasePrice)

	history, err := f.Audit.History(ctx, "product", p.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionUpdate, history[0].Action)
	assert.Contains(t, string(history[0].Changes), "product P-1")
}

func TestUpdate_Rejections(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	p := f.Product(t, "P-1", 1, "3", "5")
	f.Product(t, "P-2", 1, "3", "5")

	_, err := f.Products.Update(ctx, p.ID, product.Changes{Reference: ptr("P-2")})
	assert.True(t, apperror.IsConflict(err))

	_, err = f.Products.Update(ctx, p.ID, product.Changes{Description: ptr(" ")})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.Products.Update(ctx, p.ID, product.Changes{SalePrice: ptr(apptest.M("1.00001"))})
	assert.True(t, apperror.IsInvalidAmount(err))

	_, err = f.Products.Update(ctx, id.New(), product.Changes{})
	assert.True(t, apperror.IsNotFound(err))

	stored, err := f.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "P-1", stored.Reference)
	apptest.AssertMoney(t, "5", stored.SalePrice)
}

func TestToggleActive(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	p := f.Product(t, "P-1", 1, "3", "5")

	got, err := f.Products.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	got, err = f.Products.ToggleActive(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestDelete_RefusedWhileSold(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	sold := f.Product(t, "P-1", 5, "3", "5")
	unused := f.Product(t, "P-2", 5, "3", "5")

	_, err := f.Sales.Create(ctx, sale.CreateInput{
		ClientID: f.Client(t, "Ana").ID,
		BankID:   f.Bank(t, "Main", "0").ID,
		Status:   status.Cash,
		Lines:    []documents.CartLine{{ProductID: sold.ID, Quantity: 1, UnitPrice: apptest.M("5")}},
	})
	require.NoError(t, err)

	err = f.Products.Delete(ctx, sold.ID)
	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, int64(4), f.Stock(t, sold.ID))

	require.NoError(t, f.Products.Delete(ctx, unused.ID))
	_, err = f.Products.GetByID(ctx, unused.ID)
	assert.True(t, apperror.IsNotFound(err))

	history, err := f.Audit.History(ctx, "product", unused.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionDelete, history[0].Action)

	assert.True(t, apperror.IsNotFound(f.Products.Delete(ctx, unused.ID)))
}
