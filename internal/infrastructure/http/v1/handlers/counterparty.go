package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// CounterpartyService adds editing and removal to the catalog operations.
type CounterpartyService interface {
	CatalogService[*counterparty.Counterparty]
	Update(ctx context.Context, counterpartyID id.ID, contact counterparty.Contact) (*counterparty.Counterparty, error)
	Delete(ctx context.Context, counterpartyID id.ID) error
}

// CounterpartyHandler handles the client or provider endpoints.
type CounterpartyHandler struct {
	*CatalogHandler[*counterparty.Counterparty, dto.CreateCounterpartyRequest]
	service CounterpartyService
}

// NewCounterpartyHandler creates the handler for the counterparties of role.
func NewCounterpartyHandler(role counterparty.Role, service CounterpartyService) *CounterpartyHandler {
	toModel := func(r *dto.CreateCounterpartyRequest) *counterparty.Counterparty {
		return r.ToEntity(role)
	}
	return &CounterpartyHandler{
		CatalogHandler: NewCatalogHandler[*counterparty.Counterparty, dto.CreateCounterpartyRequest](service, toModel),
		service:        service,
	}
}

// Update handles PUT /{clients|providers}/:id
func (h *CounterpartyHandler) Update(c *gin.Context) {
	counterpartyID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp, err := h.service.Update(c.Request.Context(), counterpartyID, req.ToContact())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cp)
}

// Delete handles DELETE /{clients|providers}/:id. Counterparties with documents stay.
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	counterpartyID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), counterpartyID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
