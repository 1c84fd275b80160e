package ledger

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
)

// Ledger appends and removes generated entries on behalf of the reconciliation
// engines. It joins the unit of work found in ctx and never opens one.
type Ledger struct {
	repo Repository
}

// New creates a new ledger.
func New(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Append stores e.
func (l *Ledger) Append(ctx context.Context, e *Entry) error {
	if !e.Type.Valid() {
		return apperror.NewValidation("unknown transaction type").WithDetail("type", string(e.Type))
	}
	if !e.Amount.IsPositive() {
		return apperror.NewInvalidAmount("amount must be greater than zero").
			WithDetail("amount", e.Amount.String())
	}
	if err := l.repo.Insert(ctx, e); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// FindByOrigin returns the entries generated for one origin record.
func (l *Ledger) FindByOrigin(ctx context.Context, kind OriginKind, originID id.ID) ([]Entry, error) {
	return l.repo.FindByOrigin(ctx, kind, originID)
}

// RemoveOrigin deletes the entries generated for one origin record.
func (l *Ledger) RemoveOrigin(ctx context.Context, kind OriginKind, originID id.ID) error {
	if _, err := l.repo.DeleteByOrigin(ctx, kind, originID); err != nil {
		return fmt.Errorf("delete ledger entries of %s %s: %w", kind, originID, err)
	}
	return nil
}

// RemoveDocument deletes every entry linked to a sale or purchase.
func (l *Ledger) RemoveDocument(ctx context.Context, documentID id.ID) error {
	if _, err := l.repo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete ledger entries of document %s: %w", documentID, err)
	}
	return nil
}
