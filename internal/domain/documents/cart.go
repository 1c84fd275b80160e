// Package documents holds what sales and purchases share: the cart a document is
// created from and the display helpers of their views.
package documents

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/registers/inventory"
)

// UnknownName is shown when a referenced record no longer resolves.
const UnknownName = "unknown"

// CartLine is one requested line of a sale or purchase.
type CartLine struct {
	ProductID id.ID       `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
}

// ValidateCart checks the cart shape. Product existence and stock are checked by the engines.
func ValidateCart(cart []CartLine) error {
	if len(cart) == 0 {
		return apperror.NewValidation("at least one line is required").WithDetail("field", "lines")
	}
	for i, l := range cart {
		field := fmt.Sprintf("lines[%d]", i)
		if id.IsNil(l.ProductID) {
			return apperror.NewValidation("product is required").WithDetail("field", field+".productId")
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").WithDetail("field", field+".quantity")
		}
		if l.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").WithDetail("field", field+".unitPrice")
		}
		if !types.FitsScale(l.UnitPrice) {
			return apperror.NewInvalidAmount("unit price has too many decimal places").
				WithDetail("field", field+".unitPrice").
				WithDetail("scale", types.Scale)
		}
	}
	return nil
}

// BuildLines turns the cart into document lines and returns their total.
func BuildLines(documentID id.ID, cart []CartLine) ([]entity.Line, types.Money) {
	lines := make([]entity.Line, 0, len(cart))
	total := decimal.Zero
	for _, l := range cart {
		lt := types.LineTotal(l.Quantity, l.UnitPrice)
		lines = append(lines, entity.Line{
			ID:         id.New(),
			DocumentID: documentID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			LineTotal:  lt,
		})
		total = total.Add(lt)
	}
	return lines, total
}

// Reservations merges the cart per product, so a product listed twice is
// checked against its summed quantity.
func Reservations(cart []CartLine) []inventory.Reservation {
	idx := make(map[id.ID]int, len(cart))
	out := make([]inventory.Reservation, 0, len(cart))
	for _, l := range cart {
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, inventory.Reservation{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// ResolveName returns the name found by lookup, or UnknownName if the record is gone.
func ResolveName(ctx context.Context, lookup func(context.Context) (string, error)) (string, error) {
	name, err := lookup(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			return UnknownName, nil
		}
		return "", err
	}
	return name, nil
}
