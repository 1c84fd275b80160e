// Package ledger records every movement of money at a bank account.
//
// Entries written by reconciliations carry an explicit link back to the record
// that caused them (OriginKind + OriginID, plus DocumentID for payments) so they
// can be found and removed when that record is undone. Descriptions are for
// humans only and are never parsed.
package ledger

import (
	"time"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
)

// Type classifies a bank movement.
type Type string

const (
	TypeIncome          Type = "income"
	TypeWithdrawal      Type = "withdrawal"
	TypeSalePayment     Type = "sale_payment"
	TypePurchasePayment Type = "purchase_payment"
	TypeExpense         Type = "expense"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeWithdrawal, TypeSalePayment, TypePurchasePayment, TypeExpense:
		return true
	}
	return false
}

// OriginKind names the kind of record an entry was generated for.
type OriginKind string

const (
	OriginSale            OriginKind = "sale"
	OriginPurchase        OriginKind = "purchase"
	OriginSalePayment     OriginKind = "sale_payment"
	OriginPurchasePayment OriginKind = "purchase_payment"
	OriginExpense         OriginKind = "expense"
	OriginManual          OriginKind = "manual"
)

// Entry is one bank movement. Amount is always positive; Type says the direction.
type Entry struct {
	ID          id.ID       `db:"id" json:"id"`
	BankID      id.ID       `db:"bank_id" json:"bankId"`
	Amount      types.Money `db:"amount" json:"amount"`
	Type        Type        `db:"type" json:"type"`
	Description string      `db:"description" json:"description"`
	OriginKind  OriginKind  `db:"origin_kind" json:"originKind"`
	OriginID    id.ID       `db:"origin_id" json:"originId"`
	// DocumentID is the sale or purchase an entry belongs to, nil for manual entries and expenses.
	DocumentID *id.ID    `db:"document_id" json:"documentId,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// IsManual reports whether the entry was recorded by hand rather than generated.
func (e *Entry) IsManual() bool {
	return e.OriginKind == OriginManual
}

// NewEntry builds an entry linked to its origin.
func NewEntry(bankID id.ID, amount types.Money, t Type, kind OriginKind, originID id.ID, description string) *Entry {
	return &Entry{
		ID:          id.New(),
		BankID:      bankID,
		Amount:      amount,
		Type:        t,
		Description: description,
		OriginKind:  kind,
		OriginID:    originID,
		CreatedAt:   entity.Now(),
	}
}

// ForDocument links the entry to the sale or purchase it belongs to.
func (e *Entry) ForDocument(documentID id.ID) *Entry {
	e.DocumentID = &documentID
	return e
}
