package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// PaymentService is the payment engine of one side (sales or purchases).
type PaymentService struct {
	Entity string
	Pay    func(ctx context.Context, documentID, bankID id.ID, amount types.Money) (*payment.View, error)
	Unpay  func(ctx context.Context, paymentID id.ID) (bool, error)
	List   func(ctx context.Context, documentID id.ID) ([]payment.View, error)
}

// PaymentHandler handles the payment endpoints of one side.
type PaymentHandler struct {
	*BaseHandler
	service PaymentService
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Pay handles POST /{documents}/:id/payments.
func (h *PaymentHandler) Pay(c *gin.Context) {
	documentID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.PayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	view, err := h.service.Pay(c.Request.Context(), documentID, req.BankID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, view)
}

// List handles GET /{documents}/:id/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	documentID, ok := h.ParseID(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), documentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// Unpay handles DELETE /{side}-payments/:id.
func (h *PaymentHandler) Unpay(c *gin.Context) {
	paymentID, ok := h.ParseID(c)
	if !ok {
		return
	}

	removed, err := h.service.Unpay(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Deleted(c, removed, h.service.Entity, paymentID)
}
