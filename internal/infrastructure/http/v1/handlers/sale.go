package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// SaleService is the sale reconciliation engine as seen by HTTP.
type SaleService interface {
	Create(ctx context.Context, in sale.CreateInput) (*sale.View, error)
	Delete(ctx context.Context, saleID id.ID) error
	GetByID(ctx context.Context, saleID id.ID) (*sale.View, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[sale.View], error)
}

// SaleHandler handles sale endpoints.
type SaleHandler struct {
	*BaseHandler
	service SaleService
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(service SaleService) *SaleHandler {
	return &SaleHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	view, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, view)
}

// List handles GET /sales?page=
func (h *SaleHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.Filter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result))
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c)
	if !ok {
		return
	}

	view, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, view)
}

// Delete handles DELETE /sales/:id.
func (h *SaleHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), saleID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
