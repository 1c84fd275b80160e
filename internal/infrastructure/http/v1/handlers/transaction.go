package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// TransactionService is the manual side of the ledger.
type TransactionService interface {
	RecordManual(ctx context.Context, bankID id.ID, t ledger.Type, amount types.Money, description string) (*ledger.Entry, error)
	RemoveManual(ctx context.Context, entryID id.ID) (bool, error)
	GetByID(ctx context.Context, entryID id.ID) (*ledger.Entry, error)
	List(ctx context.Context, filter ledger.ListFilter) (domain.ListResult[ledger.Entry], error)
}

// TransactionHandler handles bank movement endpoints.
type TransactionHandler struct {
	*BaseHandler
	service TransactionService
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(service TransactionService) *TransactionHandler {
	return &TransactionHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.RecordManual(c.Request.Context(), req.BankID, req.Type, req.Amount, req.Description)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, entry)
}

// List handles GET /transactions?page=&bankId=&type=
func (h *TransactionHandler) List(c *gin.Context) {
	var q dto.TransactionQuery
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

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	entryID, ok := h.ParseID(c)
	if !ok {
		return
	}

	entry, err := h.service.GetByID(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entry)
}

// Delete handles DELETE /transactions/:id. Automatic entries are refused.
func (h *TransactionHandler) Delete(c *gin.Context) {
	entryID, ok := h.ParseID(c)
	if !ok {
		return
	}

	removed, err := h.service.RemoveManual(c.Request.Context(), entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Deleted(c, removed, "transaction", entryID)
}
