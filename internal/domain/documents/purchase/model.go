// Package purchase provides the purchase document and its reconciliation engine.
// It mirrors package sale with the provider as credit target and money leaving
// the bank instead of entering it.
package purchase

import (
	"context"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/domain/documents"
)

// Entity is the name used in errors, audit records and events.
const Entity = "purchase"

// Purchase is a purchase from a provider, paid in cash or on credit.
type Purchase struct {
	entity.Document
	ProviderID id.ID `db:"provider_id" json:"providerId"`

	Lines []entity.Line `db:"-" json:"lines,omitempty"`
}

// NewPurchase creates a purchase header.
func NewPurchase(providerID, bankID id.ID, st status.Status) *Purchase {
	return &Purchase{
		Document:   entity.NewDocument(bankID, st),
		ProviderID: providerID,
	}
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if id.IsNil(p.ProviderID) {
		return apperror.NewValidation("provider is required").WithDetail("field", "providerId")
	}
	return p.Document.Validate(ctx)
}

// CreateInput is the request to create a purchase.
type CreateInput struct {
	ProviderID id.ID
	BankID     id.ID
	Status     status.Status
	Lines      []documents.CartLine
}

// View is a purchase with display names.
type View struct {
	*Purchase
	ProviderName string `json:"providerName"`
	BankName     string `json:"bankName"`
	StatusName   string `json:"statusName"`
}
