// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	// mutableCols are the columns Update writes. Quantities and balances are
	// never listed; they only move through adjust.
	mutableCols []string
	searchCols  []string
	orderBy     string
	newFn       func() T

	// uniqueKey names the field reported when an insert hits a unique constraint.
	uniqueKey func(T) (field, value string)
	// afterScan fills fields that have no column (counterparty role).
	afterScan func(T)
}

// CatalogOptions configures a BaseCatalogRepo.
type CatalogOptions[T any] struct {
	Table      string
	Entity     string
	Columns    []string
	Mutable    []string
	SearchCols []string
	OrderBy    string
	New        func() T
	UniqueKey  func(T) (field, value string)
	AfterScan  func(T)
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T any](txManager *postgres.TxManager, opts CatalogOptions[T]) *BaseCatalogRepo[T] {
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	return &BaseCatalogRepo[T]{
		txManager:   txManager,
		tableName:   opts.Table,
		entityName:  opts.Entity,
		selectCols:  opts.Columns,
		mutableCols: opts.Mutable,
		searchCols:  opts.SearchCols,
		orderBy:     orderBy,
		newFn:       opts.New,
		uniqueKey:   opts.UniqueKey,
		afterScan:   opts.AfterScan,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *BaseCatalogRepo[T]) fill(entity T) T {
	if r.afterScan != nil {
		r.afterScan(entity)
	}
	return entity
}

// Create inserts a new entity using its "db" tags.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T) error {
	data := postgres.ColumnValues(entity, r.selectCols...)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	sql, args, err := r.insertQuery(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) && r.uniqueKey != nil {
			field, value := r.uniqueKey(entity)
			return apperror.NewDuplicate(r.entityName, field, value).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

func (r *BaseCatalogRepo[T]) insertQuery(data map[string]any) squirrel.InsertBuilder {
	return r.Builder().
		Insert(r.tableName).
		SetMap(data)
}

// Update writes the mutable columns of entity to the row entityID.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entityID id.ID, entity T) error {
	if len(r.mutableCols) == 0 {
		return fmt.Errorf("%s has no mutable columns", r.tableName)
	}

	sql, args, err := r.updateQuery(entityID, entity).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err) && r.uniqueKey != nil {
			field, value := r.uniqueKey(entity)
			return apperror.NewDuplicate(r.entityName, field, value).WithCause(err)
		}
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID)
	}
	return nil
}

func (r *BaseCatalogRepo[T]) updateQuery(entityID id.ID, entity T) squirrel.UpdateBuilder {
	return r.Builder().
		Update(r.tableName).
		SetMap(postgres.ColumnValues(entity, r.mutableCols...)).
		Where(squirrel.Eq{"id": entityID})
}

// baseSelect creates a SELECT builder.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": entityID}).Limit(1))
	if apperror.IsNotFound(err) {
		return entity, apperror.NewNotFound(r.entityName, entityID)
	}
	return entity, err
}

// FindOne executes a SELECT query and returns a single entity.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, "matching query")
		}
		return entity, fmt.Errorf("find one %s: %w", r.tableName, err)
	}
	return r.fill(entity), nil
}

// listQuery applies the search filter. Pagination is added by List.
func (r *BaseCatalogRepo[T]) listQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.Search != "" && len(r.searchCols) > 0 {
		pattern := "%" + filter.Search + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}
	return q
}

// List retrieves entities with filtering and pagination.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	filter = filter.Normalize()
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.listQuery(filter)

	// Count total (before pagination)
	countSQL, countArgs, err := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	sql, args, err := q.
		OrderBy(r.orderBy).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	for _, item := range result.Items {
		r.fill(item)
	}
	return result, nil
}

// Exists checks if entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		From(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// Delete performs physical removal from the database.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID id.ID) error {
	sql, args, err := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewConflict("record is still referenced by other records").
				WithDetail("entity", r.entityName).
				WithDetail("id", entityID.String()).
				WithCause(err)
		}
		return fmt.Errorf("execute delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID)
	}
	return nil
}

// adjust runs a guarded "col = col + delta" update. The row is left alone when the
// result would be negative; applied reports whether it changed. A missing row is NotFound.
func (r *BaseCatalogRepo[T]) adjust(ctx context.Context, entityID id.ID, q squirrel.UpdateBuilder) (bool, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build adjust: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("adjust %s: %w", r.tableName, err)
	}
	if result.RowsAffected() > 0 {
		return true, nil
	}

	exists, err := r.Exists(ctx, entityID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperror.NewNotFound(r.entityName, entityID)
	}
	return false, nil
}
