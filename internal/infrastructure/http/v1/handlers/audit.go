package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/audit"
)

// AuditService reads the audit trail.
type AuditService interface {
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error)
}

// AuditHandler exposes the audit trail of one record.
type AuditHandler struct {
	*BaseHandler
	service AuditService
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{BaseHandler: NewBaseHandler(), service: service}
}

// History handles GET /audit/:entity/:id?limit=
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.service.History(c.Request.Context(), c.Param("entity"), entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}
