package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// CatalogService is what the generic catalog handler needs.
type CatalogService[T entity.Validatable] interface {
	Create(ctx context.Context, e T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogHandler provides create/get/list for products, banks, clients and providers.
// Req is the create request body.
type CatalogHandler[T entity.Validatable, Req any] struct {
	*BaseHandler
	service CatalogService[T]
	toModel func(*Req) T
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler[T entity.Validatable, Req any](service CatalogService[T], toModel func(*Req) T) *CatalogHandler[T, Req] {
	return &CatalogHandler[T, Req]{
		BaseHandler: NewBaseHandler(),
		service:     service,
		toModel:     toModel,
	}
}

// List handles GET /{catalog}?page=&search=
func (h *CatalogHandler[T, Req]) List(c *gin.Context) {
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

// Get handles GET /{catalog}/:id
func (h *CatalogHandler[T, Req]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, e)
}

// Create handles POST /{catalog}
func (h *CatalogHandler[T, Req]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	e := h.toModel(&req)
	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, e)
}
