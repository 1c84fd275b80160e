package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// CounterpartyRepo implements counterparty.Repository for one role.
// Clients and providers live in separate tables with the same shape.
type CounterpartyRepo struct {
	*BaseCatalogRepo[*counterparty.Counterparty]
	role counterparty.Role
}

// NewClientRepo creates the client repository.
func NewClientRepo(txManager *postgres.TxManager) *CounterpartyRepo {
	return newCounterpartyRepo(txManager, "clients", counterparty.RoleClient)
}

// NewProviderRepo creates the provider repository.
func NewProviderRepo(txManager *postgres.TxManager) *CounterpartyRepo {
	return newCounterpartyRepo(txManager, "providers", counterparty.RoleProvider)
}

func newCounterpartyRepo(txManager *postgres.TxManager, table string, role counterparty.Role) *CounterpartyRepo {
	return &CounterpartyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txManager, CatalogOptions[*counterparty.Counterparty]{
			Table:      table,
			Entity:     role.EntityName(),
			Columns:    postgres.ExtractDBColumns[counterparty.Counterparty](),
			Mutable:    []string{"external_id", "name", "address", "city", "phone", "email"},
			SearchCols: []string{"name", "external_id"},
			OrderBy:    "name",
			New:        func() *counterparty.Counterparty { return &counterparty.Counterparty{} },
			UniqueKey: func(c *counterparty.Counterparty) (string, string) {
				return "externalId", c.ExternalID
			},
			AfterScan: func(c *counterparty.Counterparty) { c.Role = role },
		}),
		role: role,
	}
}

// Create stamps the role of this table before inserting.
func (r *CounterpartyRepo) Create(ctx context.Context, c *counterparty.Counterparty) error {
	c.Role = r.role
	return r.BaseCatalogRepo.Create(ctx, c)
}

// IncreaseBalance implements counterparty.Repository.
func (r *CounterpartyRepo) IncreaseBalance(ctx context.Context, counterpartyID id.ID, amount types.Money) error {
	sql, args, err := r.Builder().
		Update(r.tableName).
		Set("outstanding_balance", squirrel.Expr("outstanding_balance + ?", amount)).
		Where(squirrel.Eq{"id": counterpartyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build increase: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("increase %s balance: %w", r.entityName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, counterpartyID)
	}
	return nil
}

// DecreaseBalance implements counterparty.Repository. The balance stops at zero
// and the amount actually removed is returned.
func (r *CounterpartyRepo) DecreaseBalance(ctx context.Context, counterpartyID id.ID, amount types.Money) (types.Money, error) {
	var removed types.Money
	err := r.querier(ctx).QueryRow(ctx, r.decreaseSQL(), amount, counterpartyID).Scan(&removed)
	if err == pgx.ErrNoRows {
		return removed, apperror.NewNotFound(r.entityName, counterpartyID)
	}
	if err != nil {
		return removed, fmt.Errorf("decrease %s balance: %w", r.entityName, err)
	}
	return removed, nil
}

func (r *CounterpartyRepo) decreaseSQL() string {
	return `
		WITH cur AS (
			SELECT id, outstanding_balance FROM ` + r.tableName + ` WHERE id = $2 FOR UPDATE
		)
		UPDATE ` + r.tableName + ` t
		SET outstanding_balance = cur.outstanding_balance - LEAST(cur.outstanding_balance, $1::numeric)
		FROM cur
		WHERE t.id = cur.id
		RETURNING LEAST(cur.outstanding_balance, $1::numeric)`
}

var _ counterparty.Repository = (*CounterpartyRepo)(nil)
