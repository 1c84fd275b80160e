package sale

import (
	"context"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
)

// Repository stores sales and their lines.
type Repository interface {
	// Create inserts the header only; lines go through SaveLines.
	Create(ctx context.Context, s *Sale) error
	SaveLines(ctx context.Context, saleID id.ID, lines []entity.Line) error

	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetForUpdate loads the header and locks it until the unit of work ends.
	GetForUpdate(ctx context.Context, saleID id.ID) (*Sale, error)
	GetLines(ctx context.Context, saleID id.ID) ([]entity.Line, error)

	// UpdateSettlement persists status and remaining balance.
	// It fails with ConcurrentModification if doc.Version is stale, and bumps it otherwise.
	UpdateSettlement(ctx context.Context, doc *entity.Document) error

	// Delete removes the header and its lines.
	Delete(ctx context.Context, saleID id.ID) error

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Sale], error)
}
