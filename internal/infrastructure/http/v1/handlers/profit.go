package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/profit"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// ProfitService lists the profit booked by sales.
type ProfitService interface {
	List(ctx context.Context, page int) (domain.ListResult[profit.Record], error)
	ListRange(ctx context.Context, from, to time.Time, page int) (domain.ListResult[profit.Record], error)
	ForSale(ctx context.Context, saleID id.ID) (*profit.Record, []profit.Line, error)
}

// ProfitHandler handles profit endpoints.
type ProfitHandler struct {
	*BaseHandler
	service ProfitService
}

// NewProfitHandler creates a profit handler.
func NewProfitHandler(service ProfitService) *ProfitHandler {
	return &ProfitHandler{BaseHandler: NewBaseHandler(), service: service}
}

// List handles GET /profits?page=
func (h *ProfitHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), max(q.Page, 1))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result))
}

// Range handles GET /profits/range?from=YYYY-MM-DD&to=YYYY-MM-DD&page=
func (h *ProfitHandler) Range(c *gin.Context) {
	var q dto.ProfitRangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	from, to := q.Range()
	result, err := h.service.ListRange(c.Request.Context(), from, to, max(q.Page, 1))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result))
}

// ForSale handles GET /sales/:id/profit.
func (h *ProfitHandler) ForSale(c *gin.Context) {
	saleID, ok := h.ParseID(c)
	if !ok {
		return
	}

	rec, lines, err := h.service.ForSale(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"record": rec, "lines": lines})
}
