// Package sale provides the sale document and the engine that reconciles stock,
// money, client credit and profit whenever a sale is created or deleted.
package sale

import (
	"context"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/domain/documents"
)

// Entity is the name used in errors, audit records and events.
const Entity = "sale"

// Sale is a sale to a client, paid in cash or on credit.
type Sale struct {
	entity.Document
	ClientID id.ID `db:"client_id" json:"clientId"`

	Lines []entity.Line `db:"-" json:"lines,omitempty"`
}

// NewSale creates a sale header. The total is set when lines are added.
func NewSale(clientID, bankID id.ID, st status.Status) *Sale {
	return &Sale{
		Document: entity.NewDocument(bankID, st),
		ClientID: clientID,
	}
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if id.IsNil(s.ClientID) {
		return apperror.NewValidation("client is required").WithDetail("field", "clientId")
	}
	return s.Document.Validate(ctx)
}

// CreateInput is the request to create a sale.
type CreateInput struct {
	ClientID id.ID
	BankID   id.ID
	Status   status.Status
	Lines    []documents.CartLine
}

// View is a sale with the names a caller needs to display it.
type View struct {
	*Sale
	ClientName string `json:"clientName"`
	BankName   string `json:"bankName"`
	StatusName string `json:"statusName"`
}
