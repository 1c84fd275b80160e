// Package settlement applies and reverts payments against credit sales and
// purchases. One engine serves both sides; a side only decides where the
// documents live and which way the money moves at the bank.
package settlement

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
)

// Documents gives the engine the headers of one side.
type Documents interface {
	Get(ctx context.Context, documentID id.ID) (*entity.Document, error)
	// Lock loads the header and holds it until the unit of work ends.
	Lock(ctx context.Context, documentID id.ID) (*entity.Document, error)
	Save(ctx context.Context, doc *entity.Document) error
}

// Side describes one document family.
type Side struct {
	Entity     string
	StatusSide status.Side
	Documents  Documents
	Payments   payment.Repository

	// Inflow is true when a payment brings money into the bank (sales).
	Inflow      bool
	EntryType   ledger.Type
	EntryOrigin ledger.OriginKind
}

func (s Side) paymentEntity() string {
	return s.Entity + "_payment"
}

func (s Side) describe(paymentID, documentID id.ID) string {
	return fmt.Sprintf("Payment %s for %s %s", id.Short(paymentID), s.Entity, id.Short(documentID))
}

// SaleSide builds the side of sales: money comes in.
func SaleSide(repo sale.Repository, payments payment.Repository) Side {
	return Side{
		Entity:      sale.Entity,
		StatusSide:  status.SaleSide,
		Documents:   saleDocuments{repo: repo},
		Payments:    payments,
		Inflow:      true,
		EntryType:   ledger.TypeSalePayment,
		EntryOrigin: ledger.OriginSalePayment,
	}
}

// PurchaseSide builds the side of purchases: money goes out.
func PurchaseSide(repo purchase.Repository, payments payment.Repository) Side {
	return Side{
		Entity:      purchase.Entity,
		StatusSide:  status.PurchaseSide,
		Documents:   purchaseDocuments{repo: repo},
		Payments:    payments,
		Inflow:      false,
		EntryType:   ledger.TypePurchasePayment,
		EntryOrigin: ledger.OriginPurchasePayment,
	}
}

type saleDocuments struct {
	repo sale.Repository
}

func (d saleDocuments) Get(ctx context.Context, documentID id.ID) (*entity.Document, error) {
	s, err := d.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &s.Document, nil
}

func (d saleDocuments) Lock(ctx context.Context, documentID id.ID) (*entity.Document, error) {
	s, err := d.repo.GetForUpdate(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &s.Document, nil
}

func (d saleDocuments) Save(ctx context.Context, doc *entity.Document) error {
	return d.repo.UpdateSettlement(ctx, doc)
}

type purchaseDocuments struct {
	repo purchase.Repository
}

func (d purchaseDocuments) Get(ctx context.Context, documentID id.ID) (*entity.Document, error) {
	p, err := d.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &p.Document, nil
}

func (d purchaseDocuments) Lock(ctx context.Context, documentID id.ID) (*entity.Document, error) {
	p, err := d.repo.GetForUpdate(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return &p.Document, nil
}

func (d purchaseDocuments) Save(ctx context.Context, doc *entity.Document) error {
	return d.repo.UpdateSettlement(ctx, doc)
}
