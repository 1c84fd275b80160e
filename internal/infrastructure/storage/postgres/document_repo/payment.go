package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

var paymentColumns = postgres.ExtractDBColumns[payment.Payment]()

// PaymentRepo implements payment.Repository for one side.
type PaymentRepo struct {
	txManager *postgres.TxManager
	tableName string
}

// NewSalePaymentRepo creates the repository of payments received for sales.
func NewSalePaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{txManager: txManager, tableName: "sale_payments"}
}

// NewPurchasePaymentRepo creates the repository of payments made for purchases.
func NewPurchasePaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{txManager: txManager, tableName: "purchase_payments"}
}

func (r *PaymentRepo) Insert(ctx context.Context, p *payment.Payment) error {
	sql, args, err := builder().
		Insert(r.tableName).
		SetMap(postgres.StructToMap(p)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*payment.Payment, error) {
	sql, args, err := builder().
		Select(paymentColumns...).
		From(r.tableName).
		Where(squirrel.Eq{"id": paymentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p payment.Payment
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("payment", paymentID)
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

// ListByDocument returns the payments of a document, oldest first.
func (r *PaymentRepo) ListByDocument(ctx context.Context, documentID id.ID) ([]payment.Payment, error) {
	sql, args, err := r.listQuery(documentID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []payment.Payment{}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func (r *PaymentRepo) listQuery(documentID id.ID) squirrel.SelectBuilder {
	return builder().
		Select(paymentColumns...).
		From(r.tableName).
		Where(squirrel.Eq{"document_id": documentID}).
		OrderBy("created_at", "id")
}

func (r *PaymentRepo) Delete(ctx context.Context, paymentID id.ID) error {
	n, err := r.delete(ctx, squirrel.Eq{"id": paymentID})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("payment", paymentID)
	}
	return nil
}

func (r *PaymentRepo) DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error) {
	return r.delete(ctx, squirrel.Eq{"document_id": documentID})
}

func (r *PaymentRepo) delete(ctx context.Context, where squirrel.Eq) (int64, error) {
	sql, args, err := builder().
		Delete(r.tableName).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.tableName, err)
	}
	return result.RowsAffected(), nil
}

var _ payment.Repository = (*PaymentRepo)(nil)
