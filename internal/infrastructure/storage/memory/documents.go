package memory

import (
	"context"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
)

// docRepo stores one document family. T is the document struct (sale.Sale, purchase.Purchase).
type docRepo[T any] struct {
	s      *Store
	entity string

	headers func(*state) map[id.ID]T
	lines   func(*state) map[id.ID][]entity.Line
	header  func(*T) *entity.Document
	strip   func(*T)
}

// Sales returns the sale repository.
func (s *Store) Sales() sale.Repository {
	return &docRepo[sale.Sale]{
		s:       s,
		entity:  sale.Entity,
		headers: func(st *state) map[id.ID]sale.Sale { return st.sales },
		lines:   func(st *state) map[id.ID][]entity.Line { return st.saleLines },
		header:  func(d *sale.Sale) *entity.Document { return &d.Document },
		strip:   func(d *sale.Sale) { d.Lines = nil },
	}
}

// Purchases returns the purchase repository.
func (s *Store) Purchases() purchase.Repository {
	return &docRepo[purchase.Purchase]{
		s:       s,
		entity:  purchase.Entity,
		headers: func(st *state) map[id.ID]purchase.Purchase { return st.purchases },
		lines:   func(st *state) map[id.ID][]entity.Line { return st.purchaseLines },
		header:  func(d *purchase.Purchase) *entity.Document { return &d.Document },
		strip:   func(d *purchase.Purchase) { d.Lines = nil },
	}
}

func (r *docRepo[T]) Create(ctx context.Context, doc *T) error {
	return r.s.do(ctx, func(st *state) error {
		h := r.header(doc)
		if _, ok := r.headers(st)[h.ID]; ok {
			return apperror.NewDuplicate(r.entity, "id", h.ID.String())
		}
		stored := *doc
		r.strip(&stored)
		r.headers(st)[h.ID] = stored
		return nil
	})
}

func (r *docRepo[T]) SaveLines(ctx context.Context, docID id.ID, lines []entity.Line) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := r.headers(st)[docID]; !ok {
			return apperror.NewNotFound(r.entity, docID)
		}
		r.lines(st)[docID] = append([]entity.Line(nil), lines...)
		return nil
	})
}

func (r *docRepo[T]) GetByID(ctx context.Context, docID id.ID) (*T, error) {
	var out T
	err := r.s.do(ctx, func(st *state) error {
		d, ok := r.headers(st)[docID]
		if !ok {
			return apperror.NewNotFound(r.entity, docID)
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetForUpdate needs no row lock: the unit of work already holds the store lock.
func (r *docRepo[T]) GetForUpdate(ctx context.Context, docID id.ID) (*T, error) {
	return r.GetByID(ctx, docID)
}

func (r *docRepo[T]) GetLines(ctx context.Context, docID id.ID) ([]entity.Line, error) {
	var out []entity.Line
	err := r.s.do(ctx, func(st *state) error {
		out = append([]entity.Line{}, r.lines(st)[docID]...)
		return nil
	})
	return out, err
}

func (r *docRepo[T]) UpdateSettlement(ctx context.Context, doc *entity.Document) error {
	return r.s.do(ctx, func(st *state) error {
		stored, ok := r.headers(st)[doc.ID]
		if !ok {
			return apperror.NewNotFound(r.entity, doc.ID)
		}
		h := r.header(&stored)
		if h.Version != doc.Version {
			return apperror.NewConcurrentModification(r.entity, doc.ID)
		}
		h.Status = doc.Status
		h.RemainingBalance = doc.RemainingBalance
		h.UpdatedAt = doc.UpdatedAt
		h.Version++
		r.headers(st)[doc.ID] = stored
		doc.Version = h.Version
		return nil
	})
}

func (r *docRepo[T]) Delete(ctx context.Context, docID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := r.headers(st)[docID]; !ok {
			return apperror.NewNotFound(r.entity, docID)
		}
		delete(r.headers(st), docID)
		delete(r.lines(st), docID)
		return nil
	})
}

func (r *docRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	var all []T
	_ = r.s.do(ctx, func(st *state) error {
		for _, d := range r.headers(st) {
			all = append(all, d)
		}
		return nil
	})
	newestFirst(all, func(d T) (time.Time, id.ID) {
		h := r.header(&d)
		return h.CreatedAt, h.ID
	})
	return domain.Window(all, filter), nil
}
