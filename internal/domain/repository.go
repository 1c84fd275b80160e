// Package domain provides the interfaces and types shared by every domain package.
package domain

import (
	"context"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
)

// PageSize is the default number of rows returned by list operations.
const PageSize = 10

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches name-like fields (case-insensitive substring)
	Search string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: PageSize}
}

// PageFilter converts a 1-based page number into limit/offset.
func PageFilter(page int) ListFilter {
	if page < 1 {
		page = 1
	}
	return ListFilter{Limit: PageSize, Offset: (page - 1) * PageSize}
}

// Normalize applies defaults to zero or negative bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = PageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
}

// Window cuts a page out of an in-memory slice.
func Window[T any](all []T, f ListFilter) ListResult[T] {
	f = f.Normalize()
	res := ListResult[T]{Items: []T{}, TotalCount: len(all), Limit: f.Limit, Offset: f.Offset}
	if f.Offset >= len(all) {
		return res
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	res.Items = append(res.Items, all[f.Offset:end]...)
	return res
}

// CatalogRepository defines the operations every catalog store supports.
type CatalogRepository[T entity.Validatable] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
}
