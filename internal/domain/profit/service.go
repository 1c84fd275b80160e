package profit

import (
	"context"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
)

// Service lists profit records.
type Service struct {
	repo Repository
}

// NewService creates a new profit service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of records, newest first.
func (s *Service) List(ctx context.Context, page int) (domain.ListResult[Record], error) {
	if page < 1 {
		return domain.ListResult[Record]{}, apperror.NewValidation("page must be at least 1").
			WithDetail("field", "page")
	}
	return s.repo.List(ctx, ListFilter{ListFilter: domain.PageFilter(page)})
}

// ListRange returns one page of records created between from and to, both days inclusive.
func (s *Service) ListRange(ctx context.Context, from, to time.Time, page int) (domain.ListResult[Record], error) {
	if page < 1 {
		return domain.ListResult[Record]{}, apperror.NewValidation("page must be at least 1").
			WithDetail("field", "page")
	}
	if from.IsZero() || to.IsZero() {
		return domain.ListResult[Record]{}, apperror.NewValidation("from and to are required")
	}
	if to.Before(from) {
		return domain.ListResult[Record]{}, apperror.NewValidation("to must not be before from").
			WithDetail("from", from.Format(time.DateOnly)).
			WithDetail("to", to.Format(time.DateOnly))
	}

	filter := ListFilter{
		ListFilter: domain.PageFilter(page),
		From:       startOfDay(from),
		To:         startOfDay(to).AddDate(0, 0, 1).Add(-time.Microsecond),
	}
	return s.repo.List(ctx, filter)
}

// ForSale returns the record and lines of one sale.
func (s *Service) ForSale(ctx context.Context, saleID id.ID) (*Record, []Line, error) {
	return s.repo.GetBySale(ctx, saleID)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
