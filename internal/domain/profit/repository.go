package profit

import (
	"context"
	"time"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
)

// ListFilter narrows profit listings. Zero times are open bounds.
type ListFilter struct {
	domain.ListFilter

	From time.Time
	To   time.Time
}

// Repository stores profit records and lines.
type Repository interface {
	Save(ctx context.Context, rec *Record, lines []Line) error
	GetBySale(ctx context.Context, saleID id.ID) (*Record, []Line, error)
	DeleteBySale(ctx context.Context, saleID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[Record], error)
}
