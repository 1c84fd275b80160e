package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/expense"
	"ledgerpos/internal/infrastructure/http/v1/dto"
)

// ExpenseService records money spent out of bank accounts.
type ExpenseService interface {
	Create(ctx context.Context, e *expense.Expense) error
	Delete(ctx context.Context, expenseID id.ID) (bool, error)
	GetByID(ctx context.Context, expenseID id.ID) (*expense.Expense, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[expense.Expense], error)
}

// ExpenseHandler handles expense endpoints.
type ExpenseHandler struct {
	*BaseHandler
	service ExpenseService
}

// NewExpenseHandler creates an expense handler.
func NewExpenseHandler(service ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{BaseHandler: NewBaseHandler(), service: service}
}

// Create handles POST /expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, e)
}

// List handles GET /expenses?page=&search=
func (h *ExpenseHandler) List(c *gin.Context) {
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

// Get handles GET /expenses/:id.
func (h *ExpenseHandler) Get(c *gin.Context) {
	expenseID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, e)
}

// Delete handles DELETE /expenses/:id.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	expenseID, ok := h.ParseID(c)
	if !ok {
		return
	}

	removed, err := h.service.Delete(c.Request.Context(), expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Deleted(c, removed, "expense", expenseID)
}
