// Package audit keeps a trail of destructive operations: deleted documents,
// reverted payments, removed ledger entries, catalog edits and manual stock
// moves, with the state they had before.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appctx "ledgerpos/internal/core/context"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
)

// Action is the kind of change recorded.
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
	ActionPay    Action = "pay"
	ActionUnpay  Action = "unpay"
	ActionUpdate Action = "update"

	ActionStockIncrease Action = "stock_increase"
	ActionStockDecrease Action = "stock_decrease"
)

// Entry is one audit record. Changes holds the JSON snapshot.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	Operator   string          `db:"operator" json:"operator"`
	Changes    json.RawMessage `db:"changes" json:"changes"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Store persists audit entries inside the current unit of work.
type Store interface {
	Insert(ctx context.Context, e *Entry) error
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Recorder builds entries from snapshots.
type Recorder struct {
	store Store
}

// NewRecorder creates a new recorder.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record marshals snapshot and stores it. The operator comes from ctx.
func (r *Recorder) Record(ctx context.Context, entityType string, entityID id.ID, action Action, snapshot any) error {
	changes, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal audit snapshot: %w", err)
	}

	e := &Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Operator:   appctx.GetOperatorName(ctx),
		Changes:    changes,
		CreatedAt:  entity.Now(),
	}
	if err := r.store.Insert(ctx, e); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// History returns the newest entries of one entity.
func (r *Recorder) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return r.store.History(ctx, entityType, entityID, limit)
}
