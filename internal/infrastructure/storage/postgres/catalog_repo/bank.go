package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

const bankTable = "banks"

// BankRepo implements bank.Repository.
type BankRepo struct {
	*BaseCatalogRepo[*bank.Account]
}

// NewBankRepo creates a new bank account repository.
func NewBankRepo(txManager *postgres.TxManager) *BankRepo {
	return &BankRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txManager, CatalogOptions[*bank.Account]{
			Table:      bankTable,
			Entity:     "bank account",
			Columns:    postgres.ExtractDBColumns[bank.Account](),
			SearchCols: []string{"name"},
			OrderBy:    "name",
			New:        func() *bank.Account { return &bank.Account{} },
		}),
	}
}

// AdjustBalance implements bank.Repository.
func (r *BankRepo) AdjustBalance(ctx context.Context, bankID id.ID, delta types.Money) (bool, error) {
	return r.adjust(ctx, bankID, r.adjustQuery(bankID, delta))
}

func (r *BankRepo) adjustQuery(bankID id.ID, delta types.Money) squirrel.UpdateBuilder {
	return r.Builder().
		Update(bankTable).
		Set("balance", squirrel.Expr("balance + ?", delta)).
		Set("last_update", entity.Now()).
		Where(squirrel.Eq{"id": bankID}).
		Where(squirrel.Expr("balance + ? >= 0", delta))
}

var _ bank.Repository = (*BankRepo)(nil)
