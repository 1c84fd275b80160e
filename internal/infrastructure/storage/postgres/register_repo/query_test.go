package register_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/profit"
)

func TestLedgerListQuery_Filters(t *testing.T) {
	repo := NewLedgerRepo(nil)
	bankID := id.New()
	income := ledger.TypeIncome

	sql, args, err := repo.listQuery(ledger.ListFilter{BankID: &bankID, Type: &income}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM ledger_entries WHERE bank_id = $1 AND type = $2")
	assert.Equal(t, []any{bankID.String(), income}, args)
}

func TestLedgerListQuery_NoFilters(t *testing.T) {
	sql, args, err := NewLedgerRepo(nil).listQuery(ledger.ListFilter{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestOriginEq(t *testing.T) {
	paymentID := id.New()

	sql, args, err := builder().
		Delete(ledgerTable).
		Where(originEq(ledger.OriginSalePayment, paymentID)).
		ToSql()
	require.NoError(t, err)

	// squirrel sorts Eq keys
	assert.Equal(t, "DELETE FROM ledger_entries WHERE origin_id = $1 AND origin_kind = $2", sql)
	assert.Equal(t, []any{paymentID.String(), ledger.OriginSalePayment}, args)
}

func TestProfitListQuery_Range(t *testing.T) {
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	sql, args, err := NewProfitRepo(nil).listQuery(profit.ListFilter{From: from, To: to}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM profit_records WHERE created_at >= $1 AND created_at <= $2")
	assert.Equal(t, []any{from, to}, args)
}

func TestProfitLineColumnsMatchCopyOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"id", "sale_id", "product_id", "quantity", "cost_price", "sale_price", "line_profit"},
		profitLineColumns)
}
