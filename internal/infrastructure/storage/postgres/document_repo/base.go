// Package document_repo provides PostgreSQL implementations for sales, purchases,
// their payments and expenses.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// lineColumns is the column order used for COPY into a lines table.
var lineColumns = []string{"id", "document_id", "product_id", "quantity", "unit_price", "line_total"}

// builder returns a new squirrel builder with PostgreSQL placeholder format.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// BaseDocumentRepo stores one document family (header table plus lines table).
// T is the document struct; header exposes its embedded entity.Document.
type BaseDocumentRepo[T any] struct {
	txManager  *postgres.TxManager
	batch      *postgres.BatchInserter
	tableName  string
	linesTable string
	entityName string
	selectCols []string
	header     func(*T) *entity.Document
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](
	txManager *postgres.TxManager,
	tableName, linesTable, entityName string,
	header func(*T) *entity.Document,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager:  txManager,
		batch:      postgres.NewBatchInserter(txManager),
		tableName:  tableName,
		linesTable: linesTable,
		entityName: entityName,
		selectCols: postgres.ExtractDBColumns[T](),
		header:     header,
	}
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts the document header.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, doc *T) error {
	data := postgres.StructToMap(doc)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := builder().
		Insert(r.tableName).
		SetMap(filteredData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate(r.entityName, "id", r.header(doc).ID.String()).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

// SaveLines copies the lines of a document in one COPY round trip.
func (r *BaseDocumentRepo[T]) SaveLines(ctx context.Context, docID id.ID, lines []entity.Line) error {
	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []any{
			l.ID, docID, l.ProductID, l.Quantity, postgres.Numeric(l.UnitPrice), postgres.Numeric(l.LineTotal),
		})
	}

	if _, err := r.batch.CopyFromSlice(ctx, r.linesTable, lineColumns, rows); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewNotFound(r.entityName, docID).WithCause(err)
		}
		return fmt.Errorf("copy %s: %w", r.linesTable, err)
	}
	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return builder().
		Select(r.selectCols...).
		From(r.tableName)
}

func (r *BaseDocumentRepo[T]) get(ctx context.Context, q squirrel.SelectBuilder, docID id.ID) (*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc T
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.entityName, docID)
		}
		return nil, fmt.Errorf("get %s: %w", r.entityName, err)
	}
	return &doc, nil
}

// GetByID retrieves a document header by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, docID id.ID) (*T, error) {
	return r.get(ctx, r.baseSelect().Where(squirrel.Eq{"id": docID}), docID)
}

// GetForUpdate retrieves a document header and locks the row until the transaction ends.
func (r *BaseDocumentRepo[T]) GetForUpdate(ctx context.Context, docID id.ID) (*T, error) {
	return r.get(ctx, r.forUpdateQuery(docID), docID)
}

func (r *BaseDocumentRepo[T]) forUpdateQuery(docID id.ID) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{"id": docID}).
		Suffix("FOR UPDATE")
}

// GetLines returns the lines of a document in insertion order.
func (r *BaseDocumentRepo[T]) GetLines(ctx context.Context, docID id.ID) ([]entity.Line, error) {
	sql, args, err := builder().
		Select(lineColumns...).
		From(r.linesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := []entity.Line{}
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	return lines, nil
}

// UpdateSettlement persists status and remaining balance with optimistic locking.
func (r *BaseDocumentRepo[T]) UpdateSettlement(ctx context.Context, doc *entity.Document) error {
	sql, args, err := r.settlementQuery(doc).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, doc.ID); err != nil {
			return err
		}
		return apperror.NewConcurrentModification(r.entityName, doc.ID)
	}

	doc.Version++
	return nil
}

func (r *BaseDocumentRepo[T]) settlementQuery(doc *entity.Document) squirrel.UpdateBuilder {
	return builder().
		Update(r.tableName).
		Set("status", doc.Status).
		Set("remaining_balance", doc.RemainingBalance).
		Set("updated_at", doc.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": doc.ID}).
		Where(squirrel.Eq{"version": doc.Version}) // optimistic lock: expect current version
}

// Delete removes the header; lines go with it (ON DELETE CASCADE).
func (r *BaseDocumentRepo[T]) Delete(ctx context.Context, docID id.ID) error {
	sql, args, err := builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("document still has payments").
				WithDetail("entity", r.entityName).
				WithDetail("id", docID.String()).
				WithCause(err)
		}
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, docID)
	}
	return nil
}

// List returns one page of headers, newest first.
func (r *BaseDocumentRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	return listPage[T](ctx, r.querier(ctx), r.baseSelect(), filter, "created_at DESC", "id DESC")
}

// listPage counts q and returns one page of it. Shared by every list in this package.
func listPage[T any](ctx context.Context, querier postgres.Querier, q squirrel.SelectBuilder, filter domain.ListFilter, orderBy ...string) (domain.ListResult[T], error) {
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
		OrderBy(orderBy...).
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
