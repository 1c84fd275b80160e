package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// BankService adds account removal to the catalog operations.
type BankService interface {
	CatalogService[*bank.Account]
	Delete(ctx context.Context, bankID id.ID) error
}

// BankHandler handles bank account endpoints.
type BankHandler struct {
	*CatalogHandler[*bank.Account, dto.CreateBankRequest]
	service BankService
}

// NewBankHandler creates a bank account handler.
func NewBankHandler(service BankService) *BankHandler {
	return &BankHandler{
		CatalogHandler: NewCatalogHandler[*bank.Account, dto.CreateBankRequest](service, (*dto.CreateBankRequest).ToEntity),
		service:        service,
	}
}

// Delete handles DELETE /banks/:id. Only an empty account can be removed.
func (h *BankHandler) Delete(c *gin.Context) {
	bankID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), bankID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
