package inventory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/app/apptest"
	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/registers/inventory"
)

func TestStock_Adjust(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	productID := f.Product(t, "P", 3, "5", "8").ID

	p, err := f.Inventory.Adjust(ctx, productID, inventory.Increase, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.Quantity)

	p, err = f.Inventory.Adjust(ctx, productID, inventory.Decrease, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.Quantity)

	history, err := f.Audit.History(ctx, "product", productID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, audit.ActionStockDecrease, history[0].Action)
	assert.Equal(t, audit.ActionStockIncrease, history[1].Action)

	var move inventory.Move
	require.NoError(t, json.Unmarshal(history[0].Changes, &move))
	assert.Equal(t, inventory.Move{Quantity: 2, Before: 7, After: 5}, move)
}

func TestStock_AdjustRejections(t *testing.T) {
	f := apptest.New(t)
	ctx := context.Background()
	productID := f.Product(t, "P", 3, "5", "8").ID

	_, err := f.Inventory.Adjust(ctx, productID, inventory.Decrease, 4)
	assert.True(t, apperror.IsInsufficientStock(err))

	_, err = f.Inventory.Adjust(ctx, productID, inventory.Increase, 0)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.Inventory.Adjust(ctx, productID, inventory.Direction("sideways"), 1)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.Inventory.Adjust(ctx, id.New(), inventory.Increase, 1)
	assert.True(t, apperror.IsNotFound(err))

	assert.Equal(t, int64(3), f.Stock(t, productID))
	history, err := f.Audit.History(ctx, "product", productID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
