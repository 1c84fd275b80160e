package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/types"
)

func TestCodec_SmallPayloadStaysPlain(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	payload := []byte(`{"sale":{"total":"24"}}`)
	plain, compressed, algo := codec.Pack(payload, DefaultCompressThreshold)

	assert.Equal(t, CompressionNone, algo)
	assert.Equal(t, payload, plain)
	assert.Nil(t, compressed)

	out, err := codec.Unpack(plain, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestCodec_LargePayloadIsCompressed(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	payload := append([]byte(`{"lines":"`), bytes.Repeat([]byte("abc"), 8*1024)...)
	payload = append(payload, '"', '}')

	plain, compressed, algo := codec.Pack(payload, DefaultCompressThreshold)
	assert.Equal(t, CompressionZstd, algo)
	assert.Nil(t, plain)
	assert.Less(t, len(compressed), len(payload))

	out, err := codec.Unpack(plain, compressed, algo)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestCodec_UnknownAlgorithm(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	_, err = codec.Unpack(nil, []byte{1, 2}, CompressionAlgo("lz4"))
	assert.Error(t, err)
}

func TestNumeric(t *testing.T) {
	n := Numeric(types.MustMoney("12.34"))

	assert.True(t, n.Valid)
	assert.Equal(t, int32(-2), n.Exp)
	assert.Equal(t, int64(1234), n.Int.Int64())
}

func TestSchema_DeclaresEveryTable(t *testing.T) {
	for _, table := range []string{
		"products", "banks", "clients", "providers",
		"sales", "sale_lines", "purchases", "purchase_lines",
		"sale_payments", "purchase_payments", "profit_records", "profit_lines",
		"ledger_entries", "expenses", "sys_audit", "sys_outbox", "sys_idempotency",
	} {
		assert.Contains(t, Schema(), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
