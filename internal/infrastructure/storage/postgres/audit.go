package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm of a stored payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size above which changes are compressed.
const DefaultCompressThreshold = 10 * 1024

// auditRow is the sys_audit row. Exactly one of Changes and ChangesCompressed is set.
type auditRow struct {
	ID                id.ID           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          id.ID           `db:"entity_id"`
	Action            audit.Action    `db:"action"`
	Operator          string          `db:"operator"`
	Changes           []byte          `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditStore implements audit.Store on sys_audit.
type AuditStore struct {
	txManager         *TxManager
	codec             *Codec
	compressThreshold int
}

// NewAuditStore creates a new audit store.
func NewAuditStore(txManager *TxManager) (*AuditStore, error) {
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	return &AuditStore{
		txManager:         txManager,
		codec:             codec,
		compressThreshold: DefaultCompressThreshold,
	}, nil
}

// Insert stores e inside the current unit of work.
func (s *AuditStore) Insert(ctx context.Context, e *audit.Entry) error {
	row := auditRow{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Operator:   e.Operator,
		CreatedAt:  e.CreatedAt,
	}
	row.Changes, row.ChangesCompressed, row.CompressionAlgo = s.codec.Pack(e.Changes, s.compressThreshold)

	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_audit (
			id, entity_type, entity_id, action, operator,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		row.ID, row.EntityType, row.EntityID, row.Action, row.Operator,
		row.Changes, row.ChangesCompressed, row.CompressionAlgo, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// History returns the newest entries of one entity, decompressed.
func (s *AuditStore) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	var rows []auditRow
	err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &rows, `
		SELECT id, entity_type, entity_id, action, operator,
			   changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	out := make([]audit.Entry, 0, len(rows))
	for _, r := range rows {
		changes, err := s.codec.Unpack(r.Changes, r.ChangesCompressed, r.CompressionAlgo)
		if err != nil {
			return nil, fmt.Errorf("audit entry %s: %w", r.ID, err)
		}
		out = append(out, audit.Entry{
			ID:         r.ID,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Action:     r.Action,
			Operator:   r.Operator,
			Changes:    changes,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

// Codec compresses large JSON payloads with zstd.
// Encoder and decoder are safe for concurrent EncodeAll/DecodeAll calls.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCodec creates a zstd codec.
func NewCodec() (*Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Codec{encoder: encoder, decoder: decoder}, nil
}

// Pack returns the payload as stored: plain below threshold, compressed above it.
func (c *Codec) Pack(payload []byte, threshold int) (plain, compressed []byte, algo CompressionAlgo) {
	if len(payload) <= threshold {
		return payload, nil, CompressionNone
	}
	return nil, c.encoder.EncodeAll(payload, nil), CompressionZstd
}

// Unpack reverses Pack.
func (c *Codec) Unpack(plain, compressed []byte, algo CompressionAlgo) ([]byte, error) {
	switch algo {
	case CompressionZstd:
		out, err := c.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress changes: %w", err)
		}
		return out, nil
	case CompressionNone, "":
		return plain, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", algo)
	}
}

var _ audit.Store = (*AuditStore)(nil)
