package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// PurchaseService is the purchase reconciliation engine as seen by HTTP.
type PurchaseService interface {
	Create(ctx context.Context, in purchase.CreateInput) (*purchase.View, error)
	Delete(ctx context.Context, purchaseID id.ID) error
	GetByID(ctx context.Context, purchaseID id.ID) (*purchase.View, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[purchase.View], error)
}

// PurchaseHandler handles purchase endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service PurchaseService
}

// NewPurchaseHandler creates a purchase handler.
func NewPurchaseHandler(service PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
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

// List handles GET /purchases?page=
func (h *PurchaseHandler) List(c *gin.Context) {
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

// Get handles GET /purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParseID(c)
	if !ok {
		return
	}

	view, err := h.service.GetByID(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, view)
}

// Delete handles DELETE /purchases/:id.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	purchaseID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), purchaseID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
