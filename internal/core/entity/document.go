package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/core/types"
)

// Document is the header shared by sales and purchases.
// It owns the payment rules: which status accepts payments and how the
// remaining balance and status move when a payment is applied or reverted.
type Document struct {
	ID               id.ID         `db:"id" json:"id"`
	BankID           id.ID         `db:"bank_id" json:"bankId"`
	Status           status.Status `db:"status" json:"status"`
	Total            types.Money   `db:"total" json:"total"`
	RemainingBalance types.Money   `db:"remaining_balance" json:"remainingBalance"`

	// Version for optimistic locking (incremented on each update)
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewDocument creates a header with a fresh id. Total and remaining balance are
// filled in once the lines are known, see SetTotal.
func NewDocument(bankID id.ID, st status.Status) Document {
	now := Now()
	return Document{
		ID:               id.New(),
		BankID:           bankID,
		Status:           st,
		Total:            decimal.Zero,
		RemainingBalance: decimal.Zero,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.BankID) {
		return apperror.NewValidation("bank is required").WithDetail("field", "bankId")
	}
	if !d.Status.Valid() || d.Status == status.Settled {
		return apperror.NewValidation("status must be cash or credit").
			WithDetail("field", "status")
	}
	return nil
}

// SetTotal stores the total; credit documents owe all of it.
func (d *Document) SetTotal(total types.Money) {
	d.Total = total
	if d.Status == status.Credit {
		d.RemainingBalance = total
	} else {
		d.RemainingBalance = decimal.Zero
	}
}

// CheckPayable validates a payment of amount against the document.
// entity is used in error messages ("sale", "purchase").
func (d *Document) CheckPayable(entity string, amount types.Money) error {
	if !d.Status.Payable() {
		return apperror.NewOnlyCreditPayable(entity, d.ID, string(d.Status))
	}
	if !d.RemainingBalance.IsPositive() {
		return apperror.NewNoOutstandingBalance(entity, d.ID)
	}
	if !amount.IsPositive() || !types.FitsScale(amount) || amount.GreaterThan(d.RemainingBalance) {
		return apperror.NewInvalidAmount("amount must be greater than zero and not exceed the remaining balance").
			WithDetail("amount", amount.String()).
			WithDetail("remaining_balance", d.RemainingBalance.String())
	}
	return nil
}

// ApplyPayment subtracts amount and settles the document when nothing is left.
func (d *Document) ApplyPayment(entity string, amount types.Money) (settled bool, err error) {
	if err := d.CheckPayable(entity, amount); err != nil {
		return false, err
	}

	d.RemainingBalance = d.RemainingBalance.Sub(amount)
	if d.RemainingBalance.IsZero() {
		next, err := d.Status.Settle()
		if err != nil {
			return false, err
		}
		d.Status = next
		settled = true
	}
	d.UpdatedAt = Now()
	return settled, nil
}

// RevertPayment restores amount and reopens a settled document.
func (d *Document) RevertPayment(entity string, amount types.Money) (reopened bool, err error) {
	if !d.Status.IsCreditLike() {
		return false, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"payment recorded against a document that was not sold on credit").
			WithDetail("entity", entity).
			WithDetail("id", d.ID.String())
	}

	restored := d.RemainingBalance.Add(amount)
	if restored.GreaterThan(d.Total) {
		return false, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"reverting the payment would exceed the document total").
			WithDetail("entity", entity).
			WithDetail("id", d.ID.String())
	}

	if d.Status == status.Settled {
		next, err := d.Status.Reopen()
		if err != nil {
			return false, err
		}
		d.Status = next
		reopened = true
	}
	d.RemainingBalance = restored
	d.UpdatedAt = Now()
	return reopened, nil
}

// Line is a product line of a sale or purchase. LineTotal is cached as Quantity*UnitPrice.
type Line struct {
	ID         id.ID       `db:"id" json:"id"`
	DocumentID id.ID       `db:"document_id" json:"documentId"`
	ProductID  id.ID       `db:"product_id" json:"productId"`
	Quantity   int64       `db:"quantity" json:"quantity"`
	UnitPrice  types.Money `db:"unit_price" json:"unitPrice"`
	LineTotal  types.Money `db:"line_total" json:"lineTotal"`
}
