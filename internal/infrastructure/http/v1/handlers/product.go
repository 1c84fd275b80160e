package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/internal/domain/registers/inventory"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// ProductService adds editing and removal to the catalog operations.
type ProductService interface {
	CatalogService[*product.Product]
	Update(ctx context.Context, productID id.ID, changes product.Changes) (*product.Product, error)
	ToggleActive(ctx context.Context, productID id.ID) (*product.Product, error)
	Delete(ctx context.Context, productID id.ID) error
}

// StockService applies manual stock moves.
type StockService interface {
	Adjust(ctx context.Context, productID id.ID, direction inventory.Direction, qty int64) (*product.Product, error)
}

// ProductHandler handles product endpoints.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest]
	service ProductService
	stock   StockService
}

// NewProductHandler creates a product handler.
func NewProductHandler(service ProductService, stock StockService) *ProductHandler {
	return &ProductHandler{
		CatalogHandler: NewCatalogHandler[*product.Product, dto.CreateProductRequest](service, (*dto.CreateProductRequest).ToEntity),
		service:        service,
		stock:          stock,
	}
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), productID, req.ToChanges())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// ToggleActive handles PATCH /products/:id/active
func (h *ProductHandler) ToggleActive(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.ToggleActive(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// AdjustStock handles PATCH /products/:id/stock
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.StockAdjustRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.stock.Adjust(c.Request.Context(), productID, inventory.Direction(req.Direction), req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete handles DELETE /products/:id. Products on any document line stay.
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
