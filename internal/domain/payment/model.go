// Package payment provides the payments applied against credit sales and purchases.
package payment

import (
	"context"
	"time"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/core/types"
)

// Payment is money received for a credit sale, or paid out for a credit purchase.
type Payment struct {
	ID         id.ID       `db:"id" json:"id"`
	DocumentID id.ID       `db:"document_id" json:"documentId"`
	BankID     id.ID       `db:"bank_id" json:"bankId"`
	Amount     types.Money `db:"amount" json:"amount"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// New creates a payment with a fresh id.
func New(documentID, bankID id.ID, amount types.Money) *Payment {
	return &Payment{
		ID:         id.New(),
		DocumentID: documentID,
		BankID:     bankID,
		Amount:     amount,
		CreatedAt:  entity.Now(),
	}
}

// View is a payment with its bank name and the state of the document after it.
type View struct {
	Payment
	BankName         string        `json:"bankName"`
	RemainingBalance types.Money   `json:"remainingBalance"`
	Status           status.Status `json:"status"`
	StatusName       string        `json:"statusName"`
}

// Repository stores the payments of one side (sale or purchase).
type Repository interface {
	Insert(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, paymentID id.ID) (*Payment, error)
	ListByDocument(ctx context.Context, documentID id.ID) ([]Payment, error)
	Delete(ctx context.Context, paymentID id.ID) error
	DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error)
}
