// Package profit derives the profit of a sale from its lines and the purchase
// cost of each product. Records are recomputable and die with their sale.
package profit

import (
	"time"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// Record is the aggregate profit of one sale.
type Record struct {
	ID          id.ID       `db:"id" json:"id"`
	SaleID      id.ID       `db:"sale_id" json:"saleId"`
	TotalProfit types.Money `db:"total_profit" json:"totalProfit"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// Line is the profit of one sale line.
type Line struct {
	ID         id.ID       `db:"id" json:"id"`
	SaleID     id.ID       `db:"sale_id" json:"saleId"`
	ProductID  id.ID       `db:"product_id" json:"productId"`
	Quantity   int64       `db:"quantity" json:"quantity"`
	CostPrice  types.Money `db:"cost_price" json:"costPrice"`
	SalePrice  types.Money `db:"sale_price" json:"salePrice"`
	LineProfit types.Money `db:"line_profit" json:"lineProfit"`
}

// Item is what the calculator needs to know about a sold line.
type Item struct {
	ProductID id.ID
	Quantity  int64
	SalePrice types.Money
	CostPrice types.Money
}

// Compute returns the record and per-line breakdown for a sale:
// line_profit = (sale_price - cost_price) * quantity, total = sum of line_profit.
// A line sold below cost yields a negative profit.
func Compute(saleID id.ID, items []Item) (Record, []Line) {
	lines := make([]Line, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		p := types.LineTotal(it.Quantity, it.SalePrice.Sub(it.CostPrice))
		lines = append(lines, Line{
			ID:         id.New(),
			SaleID:     saleID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			CostPrice:  it.CostPrice,
			SalePrice:  it.SalePrice,
			LineProfit: p,
		})
		total = total.Add(p)
	}

	rec := Record{
		ID:          id.New(),
		SaleID:      saleID,
		TotalProfit: total,
		CreatedAt:   entity.Now(),
	}
	return rec, lines
}
