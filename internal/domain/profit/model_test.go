package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

func TestCompute(t *testing.T) {
	saleID := id.New()
	items := []Item{
		{ProductID: id.New(), Quantity: 3, SalePrice: types.MustMoney("8"), CostPrice: types.MustMoney("5")},
		{ProductID: id.New(), Quantity: 2, SalePrice: types.MustMoney("1.50"), CostPrice: types.MustMoney("2")},
	}

	rec, lines := Compute(saleID, items)

	require.Len(t, lines, 2)
	assert.Equal(t, saleID, rec.SaleID)
	assert.True(t, lines[0].LineProfit.Equal(types.MustMoney("9")))
	assert.True(t, lines[1].LineProfit.Equal(types.MustMoney("-1")), "sold below cost")
	assert.True(t, rec.TotalProfit.Equal(types.MustMoney("8")))
	for _, l := range lines {
		assert.Equal(t, saleID, l.SaleID)
	}
}

func TestCompute_Empty(t *testing.T) {
	rec, lines := Compute(id.New(), nil)
	assert.Empty(t, lines)
	assert.True(t, rec.TotalProfit.IsZero())
}
