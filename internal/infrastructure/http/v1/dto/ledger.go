package dto

import (
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/expense"
	"ledgerpos/internal/domain/ledger"
)

// CreateTransactionRequest records a manual bank movement.
type CreateTransactionRequest struct {
	BankID      id.ID       `json:"bankId" binding:"required"`
	Type        ledger.Type `json:"type" binding:"required,oneof=income withdrawal"`
	Amount      types.Money `json:"amount" binding:"dgt0"`
	Description string      `json:"description" binding:"max=255"`
}

// TransactionQuery filters the ledger listing.
type TransactionQuery struct {
	PageQuery
	BankID string `form:"bankId" binding:"omitempty,uuid"`
	Type   string `form:"type" binding:"omitempty,oneof=income withdrawal sale_payment purchase_payment expense"`
}

// Filter converts the query into a ledger filter.
func (q TransactionQuery) Filter() ledger.ListFilter {
	f := ledger.ListFilter{ListFilter: q.PageQuery.Filter()}
	if q.BankID != "" {
		if bankID, err := id.Parse(q.BankID); err == nil {
			f.BankID = &bankID
		}
	}
	if q.Type != "" {
		t := ledger.Type(q.Type)
		f.Type = &t
	}
	return f
}

// CreateExpenseRequest records money spent out of a bank account.
type CreateExpenseRequest struct {
	BankID      id.ID       `json:"bankId" binding:"required"`
	Category    string      `json:"category" binding:"required,max=100"`
	Amount      types.Money `json:"amount" binding:"dgt0"`
	Description string      `json:"description" binding:"max=255"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateExpenseRequest) ToEntity() *expense.Expense {
	return expense.New(r.BankID, r.Category, r.Amount, r.Description)
}

// ProfitRangeQuery selects profit records between two calendar days.
type ProfitRangeQuery struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
	Page int    `form:"page" binding:"omitempty,min=1"`
}

// Range parses the bounds. Binding already checked the layout.
func (q ProfitRangeQuery) Range() (time.Time, time.Time) {
	from, _ := time.Parse(time.DateOnly, q.From)
	to, _ := time.Parse(time.DateOnly, q.To)
	return from, to
}
