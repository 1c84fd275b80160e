// Package register_repo provides PostgreSQL implementations for the ledger and
// profit registers: append-mostly records derived from documents.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

const ledgerTable = "ledger_entries"

var ledgerColumns = postgres.ExtractDBColumns[ledger.Entry]()

// builder returns a new squirrel builder with PostgreSQL placeholder format.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{txManager: txManager}
}

func (r *LedgerRepo) Insert(ctx context.Context, e *ledger.Entry) error {
	sql, args, err := builder().
		Insert(ledgerTable).
		SetMap(postgres.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, entryID id.ID) (*ledger.Entry, error) {
	sql, args, err := builder().
		Select(ledgerColumns...).
		From(ledgerTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e ledger.Entry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", entryID)
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return &e, nil
}

func (r *LedgerRepo) FindByOrigin(ctx context.Context, kind ledger.OriginKind, originID id.ID) ([]ledger.Entry, error) {
	sql, args, err := builder().
		Select(ledgerColumns...).
		From(ledgerTable).
		Where(originEq(kind, originID)).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []ledger.Entry{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("find ledger entries: %w", err)
	}
	return out, nil
}

func originEq(kind ledger.OriginKind, originID id.ID) squirrel.Eq {
	return squirrel.Eq{"origin_kind": kind, "origin_id": originID}
}

func (r *LedgerRepo) DeleteByOrigin(ctx context.Context, kind ledger.OriginKind, originID id.ID) (int64, error) {
	return r.delete(ctx, originEq(kind, originID))
}

func (r *LedgerRepo) DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error) {
	return r.delete(ctx, squirrel.Eq{"document_id": documentID})
}

func (r *LedgerRepo) Delete(ctx context.Context, entryID id.ID) error {
	n, err := r.delete(ctx, squirrel.Eq{"id": entryID})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("transaction", entryID)
	}
	return nil
}

func (r *LedgerRepo) delete(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	sql, args, err := builder().
		Delete(ledgerTable).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete ledger entries: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *LedgerRepo) List(ctx context.Context, filter ledger.ListFilter) (domain.ListResult[ledger.Entry], error) {
	return listPage[ledger.Entry](ctx, r.txManager.GetQuerier(ctx), r.listQuery(filter), filter.ListFilter)
}

func (r *LedgerRepo) listQuery(filter ledger.ListFilter) squirrel.SelectBuilder {
	q := builder().
		Select(ledgerColumns...).
		From(ledgerTable)
	if filter.BankID != nil {
		q = q.Where(squirrel.Eq{"bank_id": *filter.BankID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"description": "%" + filter.Search + "%"})
	}
	return q
}

// listPage counts q and returns one page of it, newest first.
func listPage[T any](ctx context.Context, querier postgres.Querier, q squirrel.SelectBuilder, filter domain.ListFilter) (domain.ListResult[T], error) {
	filter = filter.Normalize()
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countSQL, countArgs, err := builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	sql, args, err := q.
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}
	return result, nil
}

var _ ledger.Repository = (*LedgerRepo)(nil)
