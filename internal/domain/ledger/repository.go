package ledger

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
)

// ListFilter narrows ledger listings.
type ListFilter struct {
	domain.ListFilter

	BankID *id.ID
	Type   *Type
}

// Repository stores ledger entries.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, entryID id.ID) (*Entry, error)
	FindByOrigin(ctx context.Context, kind OriginKind, originID id.ID) ([]Entry, error)

	// DeleteByOrigin removes the entries generated for one origin record.
	DeleteByOrigin(ctx context.Context, kind OriginKind, originID id.ID) (int64, error)

	// DeleteByDocument removes every entry linked to a sale or purchase,
	// its own entry as well as those of its payments.
	DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error)

	Delete(ctx context.Context, entryID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[Entry], error)
}
