package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/documents/sale"
)

func TestExtractDBColumns_WalksEmbeddedDocument(t *testing.T) {
	cols := ExtractDBColumns[sale.Sale]()

	for _, expected := range []string{
		"id", "bank_id", "status", "total", "remaining_balance", "version", "created_at", "updated_at", "client_id",
	} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "lines")
	assert.NotContains(t, cols, "-")
}

func TestStructToMap_Sale(t *testing.T) {
	s := sale.NewSale(id.New(), id.New(), status.Credit)
	s.SetTotal(types.MustMoney("24"))

	m := StructToMap(s)

	assert.Equal(t, s.ID, m["id"])
	assert.Equal(t, s.ClientID, m["client_id"])
	assert.Equal(t, status.Credit, m["status"])
	assert.Equal(t, 1, m["version"])
	assert.True(t, s.RemainingBalance.Equal(m["remaining_balance"].(types.Money)))
	assert.NotContains(t, m, "lines")
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}

func TestColumnValues_Subset(t *testing.T) {
	s := sale.NewSale(id.New(), id.New(), status.Cash)

	m := ColumnValues(s, "status", "client_id", "missing")

	assert.Equal(t, map[string]any{"status": status.Cash, "client_id": s.ClientID}, m)
}

func TestExtractDBColumns_FollowsFieldOrder(t *testing.T) {
	cols := ExtractDBColumns[sale.Sale]()

	assert.Equal(t, "id", cols[0])
	assert.Equal(t, "client_id", cols[len(cols)-1])
}
