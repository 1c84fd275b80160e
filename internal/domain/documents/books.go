package documents

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/domain/registers/balance"
)

// Books moves the money of a sale or purchase when it is created or deleted.
// Cash documents go through the bank and the ledger; credit documents owe their
// total to the counterparty and are paid through the settlement engine.
type Books struct {
	Entity string
	Side   status.Side

	// Inflow is true when the document brings money into the bank (sales).
	Inflow    bool
	EntryType ledger.Type
	Origin    ledger.OriginKind

	Banks    *balance.Bank
	Credit   balance.CreditTarget
	Ledger   *ledger.Ledger
	Payments payment.Repository
}

// Open books a new document. Zero totals move nothing.
func (b *Books) Open(ctx context.Context, doc *entity.Document, counterpartyID id.ID) error {
	if !doc.Total.IsPositive() {
		return nil
	}
	if doc.Status == status.Credit {
		return b.Credit.Increase(ctx, counterpartyID, doc.Total)
	}

	if err := b.moveIn(ctx, doc.BankID, doc.Total); err != nil {
		return err
	}
	entry := ledger.NewEntry(doc.BankID, doc.Total, b.EntryType, b.Origin, doc.ID,
		fmt.Sprintf("Cash %s %s", b.Entity, id.Short(doc.ID))).ForDocument(doc.ID)
	return b.Ledger.Append(ctx, entry)
}

// Close undoes Open and every payment made since: the cash total or each
// payment goes back out of the bank, the credit is released and the payments
// and ledger entries of the document are removed. It returns the removed payments.
func (b *Books) Close(ctx context.Context, doc *entity.Document, counterpartyID id.ID) ([]payment.Payment, error) {
	payments, err := b.Payments.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	if doc.Status.IsCreditLike() {
		for _, p := range payments {
			if err := b.moveOut(ctx, p.BankID, p.Amount); err != nil {
				return nil, err
			}
		}
		if doc.Total.IsPositive() {
			if err := b.Credit.Decrease(ctx, counterpartyID, doc.Total); err != nil {
				return nil, err
			}
		}
	} else if doc.Total.IsPositive() {
		if err := b.moveOut(ctx, doc.BankID, doc.Total); err != nil {
			return nil, err
		}
	}

	if _, err := b.Payments.DeleteByDocument(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("delete payments: %w", err)
	}
	if err := b.Ledger.RemoveDocument(ctx, doc.ID); err != nil {
		return nil, err
	}
	return payments, nil
}

// BankName resolves the display name of a bank account.
func (b *Books) BankName(ctx context.Context, bankID id.ID) (string, error) {
	return ResolveName(ctx, func(ctx context.Context) (string, error) {
		a, err := b.Banks.Account(ctx, bankID)
		if err != nil {
			return "", err
		}
		return a.Name, nil
	})
}

// Label renders the status name of doc for its side.
func (b *Books) Label(doc *entity.Document) string {
	return doc.Status.Label(b.Side)
}

func (b *Books) moveIn(ctx context.Context, bankID id.ID, amount types.Money) error {
	if b.Inflow {
		return b.Banks.Increase(ctx, bankID, amount)
	}
	return b.Banks.Decrease(ctx, bankID, amount)
}

func (b *Books) moveOut(ctx context.Context, bankID id.ID, amount types.Money) error {
	if b.Inflow {
		return b.Banks.Decrease(ctx, bankID, amount)
	}
	return b.Banks.Increase(ctx, bankID, amount)
}

// MapPage converts every item of res with view, keeping the paging fields.
func MapPage[T, V any](res domain.ListResult[T], view func(*T) (*V, error)) (domain.ListResult[V], error) {
	out := domain.ListResult[V]{
		Items:      make([]V, 0, len(res.Items)),
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
	}
	for i := range res.Items {
		v, err := view(&res.Items[i])
		if err != nil {
			return domain.ListResult[V]{}, err
		}
		out.Items = append(out.Items, *v)
	}
	return out, nil
}
