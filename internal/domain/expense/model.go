// Package expense records money spent out of a bank account that does not buy
// stock: rent, services, wages.
package expense

import (
	"context"
	"strings"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
)

// Expense is money paid out of a bank account.
type Expense struct {
	ID          id.ID       `db:"id" json:"id"`
	BankID      id.ID       `db:"bank_id" json:"bankId"`
	Category    string      `db:"category" json:"category"`
	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// New creates an expense with a fresh id.
func New(bankID id.ID, category string, amount types.Money, description string) *Expense {
	return &Expense{
		ID:          id.New(),
		BankID:      bankID,
		Category:    strings.TrimSpace(category),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		CreatedAt:   entity.Now(),
	}
}

// Validate implements entity.Validatable.
func (e *Expense) Validate(ctx context.Context) error {
	if id.IsNil(e.BankID) {
		return apperror.NewValidation("bank is required").WithDetail("field", "bankId")
	}
	if e.Category == "" {
		return apperror.NewValidation("category is required").WithDetail("field", "category")
	}
	if !e.Amount.IsPositive() || !types.FitsScale(e.Amount) {
		return apperror.NewInvalidAmount("amount must be greater than zero with at most 4 decimal places").
			WithDetail("amount", e.Amount.String())
	}
	return nil
}

// Repository stores expenses.
type Repository interface {
	Insert(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, expenseID id.ID) (*Expense, error)
	Delete(ctx context.Context, expenseID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Expense], error)
}
