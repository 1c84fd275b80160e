package dto

import (
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/product"
)

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Reference     string      `json:"reference" binding:"required,max=50"`
	Description   string      `json:"description" binding:"required,max=255"`
	PurchasePrice types.Money `json:"purchasePrice" binding:"dgte0"`
	SalePrice     types.Money `json:"salePrice" binding:"dgte0"`
	Quantity      int64       `json:"quantity" binding:"min=0"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Reference, r.Description, r.PurchasePrice, r.SalePrice)
	p.Quantity = r.Quantity
	return p
}

// CreateBankRequest is the request body for opening a bank account.
type CreateBankRequest struct {
	Name           string      `json:"name" binding:"required,max=100"`
	OpeningBalance types.Money `json:"openingBalance" binding:"dgte0"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateBankRequest) ToEntity() *bank.Account {
	return bank.NewAccount(r.Name, r.OpeningBalance)
}

// CreateCounterpartyRequest is the request body for creating a client or provider.
type CreateCounterpartyRequest struct {
	ExternalID string  `json:"externalId" binding:"required,max=50"`
	Name       string  `json:"name" binding:"required,max=150"`
	Address    *string `json:"address" binding:"omitempty,max=255"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
	Email      *string `json:"email" binding:"omitempty,email"`
}

// ToEntity converts DTO to a counterparty of the given role.
func (r *CreateCounterpartyRequest) ToEntity(role counterparty.Role) *counterparty.Counterparty {
	cp := counterparty.New(role, r.ExternalID, r.Name)
	cp.Address = r.Address
	cp.City = r.City
	cp.Phone = r.Phone
	cp.Email = r.Email
	return cp
}

// UpdateProductRequest is the body of PUT /products/:id. Omitted fields keep
// their value; quantity is changed through /products/:id/stock only.
type UpdateProductRequest struct {
	Reference     *string      `json:"reference" binding:"omitempty,min=1,max=50"`
	Description   *string      `json:"description" binding:"omitempty,min=1,max=255"`
	PurchasePrice *types.Money `json:"purchasePrice" binding:"omitempty,dgte0"`
	SalePrice     *types.Money `json:"salePrice" binding:"omitempty,dgte0"`
}

// ToChanges converts DTO to a product edit.
func (r *UpdateProductRequest) ToChanges() product.Changes {
	return product.Changes{
		Reference:     r.Reference,
		Description:   r.Description,
		PurchasePrice: r.PurchasePrice,
		SalePrice:     r.SalePrice,
	}
}

// StockAdjustRequest is the body of PATCH /products/:id/stock.
type StockAdjustRequest struct {
	Direction string `json:"direction" binding:"required,oneof=increase decrease"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// UpdateCounterpartyRequest is the body of PUT /clients/:id and /providers/:id.
// Omitted fields keep their value; an empty optional field clears it.
type UpdateCounterpartyRequest struct {
	ExternalID *string `json:"externalId" binding:"omitempty,min=1,max=50"`
	Name       *string `json:"name" binding:"omitempty,min=1,max=150"`
	Address    *string `json:"address" binding:"omitempty,max=255"`
	City       *string `json:"city" binding:"omitempty,max=100"`
	Phone      *string `json:"phone" binding:"omitempty,max=30"`
	Email      *string `json:"email" binding:"omitempty,max=255"`
}

// ToContact converts DTO to a contact edit.
func (r *UpdateCounterpartyRequest) ToContact() counterparty.Contact {
	return counterparty.Contact{
		ExternalID: r.ExternalID,
		Name:       r.Name,
		Address:    r.Address,
		City:       r.City,
		Phone:      r.Phone,
		Email:      r.Email,
	}
}
