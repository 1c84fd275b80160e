package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"ledgerpos/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the embedded DDL.
func Schema() string { return schemaSQL }

// Migrate applies the embedded schema in one transaction.
// The DDL is idempotent, so running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, txManager *TxManager) error {
	err := txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := txManager.GetTx(ctx).Exec(ctx, schemaSQL); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "database schema applied")
	return nil
}
