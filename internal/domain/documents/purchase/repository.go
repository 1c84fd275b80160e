package purchase

import (
	"context"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
)

// Repository stores purchases and their lines.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	SaveLines(ctx context.Context, purchaseID id.ID, lines []entity.Line) error
	GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error)
	GetForUpdate(ctx context.Context, purchaseID id.ID) (*Purchase, error)
	GetLines(ctx context.Context, purchaseID id.ID) ([]entity.Line, error)
	UpdateSettlement(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, purchaseID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Purchase], error)
}
