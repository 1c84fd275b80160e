package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/expense"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

const expenseTable = "expenses"

var expenseColumns = postgres.ExtractDBColumns[expense.Expense]()

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	txManager *postgres.TxManager
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txManager *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{txManager: txManager}
}

func (r *ExpenseRepo) Insert(ctx context.Context, e *expense.Expense) error {
	sql, args, err := builder().
		Insert(expenseTable).
		SetMap(postgres.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, expenseID id.ID) (*expense.Expense, error) {
	sql, args, err := builder().
		Select(expenseColumns...).
		From(expenseTable).
		Where(squirrel.Eq{"id": expenseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e expense.Expense
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("expense", expenseID)
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, expenseID id.ID) error {
	sql, args, err := builder().
		Delete(expenseTable).
		Where(squirrel.Eq{"id": expenseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("expense", expenseID)
	}
	return nil
}

func (r *ExpenseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[expense.Expense], error) {
	return listPage[expense.Expense](ctx, r.txManager.GetQuerier(ctx), r.listQuery(filter), filter, "created_at DESC", "id DESC")
}

func (r *ExpenseRepo) listQuery(filter domain.ListFilter) squirrel.SelectBuilder {
	q := builder().
		Select(expenseColumns...).
		From(expenseTable)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"category": pattern},
			squirrel.ILike{"description": pattern},
		})
	}
	return q
}

var _ expense.Repository = (*ExpenseRepo)(nil)
