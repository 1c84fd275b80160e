package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/profit"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

const (
	profitTable      = "profit_records"
	profitLinesTable = "profit_lines"
)

var (
	profitColumns     = postgres.ExtractDBColumns[profit.Record]()
	profitLineColumns = postgres.ExtractDBColumns[profit.Line]()
)

// ProfitRepo implements profit.Repository.
type ProfitRepo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
}

// NewProfitRepo creates a new profit repository.
func NewProfitRepo(txManager *postgres.TxManager) *ProfitRepo {
	return &ProfitRepo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
	}
}

// Save inserts the record and copies its lines.
func (r *ProfitRepo) Save(ctx context.Context, rec *profit.Record, lines []profit.Line) error {
	sql, args, err := builder().
		Insert(profitTable).
		SetMap(postgres.StructToMap(rec)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("profit record", "saleId", rec.SaleID.String()).WithCause(err)
		}
		return fmt.Errorf("insert profit record: %w", err)
	}

	rows := make([][]any, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []any{
			l.ID, l.SaleID, l.ProductID, l.Quantity,
			postgres.Numeric(l.CostPrice), postgres.Numeric(l.SalePrice), postgres.Numeric(l.LineProfit),
		})
	}
	if _, err := r.batch.CopyFromSlice(ctx, profitLinesTable, profitLineColumns, rows); err != nil {
		return fmt.Errorf("copy profit lines: %w", err)
	}
	return nil
}

func (r *ProfitRepo) GetBySale(ctx context.Context, saleID id.ID) (*profit.Record, []profit.Line, error) {
	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := builder().
		Select(profitColumns...).
		From(profitTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build query: %w", err)
	}

	var rec profit.Record
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil, apperror.NewNotFound("profit record", saleID)
		}
		return nil, nil, fmt.Errorf("get profit record: %w", err)
	}

	sql, args, err = builder().
		Select(profitLineColumns...).
		From(profitLinesTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build query: %w", err)
	}

	lines := []profit.Line{}
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, nil, fmt.Errorf("get profit lines: %w", err)
	}
	return &rec, lines, nil
}

// DeleteBySale removes the record; its lines go with it (ON DELETE CASCADE).
func (r *ProfitRepo) DeleteBySale(ctx context.Context, saleID id.ID) error {
	sql, args, err := builder().
		Delete(profitTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete profit record: %w", err)
	}
	return nil
}

func (r *ProfitRepo) List(ctx context.Context, filter profit.ListFilter) (domain.ListResult[profit.Record], error) {
	return listPage[profit.Record](ctx, r.txManager.GetQuerier(ctx), r.listQuery(filter), filter.ListFilter)
}

func (r *ProfitRepo) listQuery(filter profit.ListFilter) squirrel.SelectBuilder {
	q := builder().
		Select(profitColumns...).
		From(profitTable)
	if !filter.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"created_at": filter.From})
	}
	if !filter.To.IsZero() {
		q = q.Where(squirrel.LtOrEq{"created_at": filter.To})
	}
	return q
}

var _ profit.Repository = (*ProfitRepo)(nil)
