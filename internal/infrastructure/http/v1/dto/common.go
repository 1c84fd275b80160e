// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
)

// --- Pagination ---

// PageQuery is the 1-based page of a list endpoint.
type PageQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Search string `form:"search"`
}

// Filter converts the query into a domain list filter.
func (q PageQuery) Filter() domain.ListFilter {
	f := domain.PageFilter(q.Page)
	f.Search = q.Search
	return f
}

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// NewListResponse converts a domain page.
func NewListResponse[T any](res domain.ListResult[T]) ListResponse[T] {
	out := ListResponse[T]{
		Items:      res.Items,
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
		Page:       1,
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	if res.Limit > 0 {
		out.Page = res.Offset/res.Limit + 1
		out.TotalPages = (res.TotalCount + res.Limit - 1) / res.Limit
	}
	return out
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Delete Response ---

// DeletedResponse reports whether a delete removed anything.
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}
