package dto

import (
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
)

// CartLineRequest is one line of a sale or purchase.
type CartLineRequest struct {
	ProductID id.ID       `json:"productId" binding:"required"`
	Quantity  int64       `json:"quantity" binding:"gt=0"`
	UnitPrice types.Money `json:"unitPrice" binding:"dgte0"`
}

func cart(lines []CartLineRequest) []documents.CartLine {
	out := make([]documents.CartLine, len(lines))
	for i, l := range lines {
		out[i] = documents.CartLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return out
}

// CreateSaleRequest is the request body for recording a sale.
// Status accepts "cash", "credit" and the legacy display names.
type CreateSaleRequest struct {
	ClientID id.ID             `json:"clientId" binding:"required"`
	BankID   id.ID             `json:"bankId" binding:"required"`
	Status   string            `json:"status" binding:"required"`
	Lines    []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts DTO to the engine input.
func (r *CreateSaleRequest) ToInput() (sale.CreateInput, error) {
	st, err := status.ParseForCreate(r.Status)
	if err != nil {
		return sale.CreateInput{}, err
	}
	return sale.CreateInput{
		ClientID: r.ClientID,
		BankID:   r.BankID,
		Status:   st,
		Lines:    cart(r.Lines),
	}, nil
}

// CreatePurchaseRequest is the request body for recording a purchase.
type CreatePurchaseRequest struct {
	ProviderID id.ID             `json:"providerId" binding:"required"`
	BankID     id.ID             `json:"bankId" binding:"required"`
	Status     string            `json:"status" binding:"required"`
	Lines      []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToInput converts DTO to the engine input.
func (r *CreatePurchaseRequest) ToInput() (purchase.CreateInput, error) {
	st, err := status.ParseForCreate(r.Status)
	if err != nil {
		return purchase.CreateInput{}, err
	}
	return purchase.CreateInput{
		ProviderID: r.ProviderID,
		BankID:     r.BankID,
		Status:     st,
		Lines:      cart(r.Lines),
	}, nil
}

// PayRequest is the request body for paying a credit document.
type PayRequest struct {
	BankID id.ID       `json:"bankId" binding:"required"`
	Amount types.Money `json:"amount" binding:"dgt0"`
}
