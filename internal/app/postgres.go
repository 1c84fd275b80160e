package app

import (
	"fmt"

	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/internal/infrastructure/storage/postgres/catalog_repo"
	"ledgerpos/internal/infrastructure/storage/postgres/document_repo"
	"ledgerpos/internal/infrastructure/storage/postgres/register_repo"
)

// PostgresRepositories builds Repositories on one Postgres transaction manager.
// Events go to the transactional outbox.
func PostgresRepositories(txManager *postgres.TxManager) (Repositories, error) {
	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		return Repositories{}, fmt.Errorf("audit store: %w", err)
	}

	return Repositories{
		Products:         catalog_repo.NewProductRepo(txManager),
		Banks:            catalog_repo.NewBankRepo(txManager),
		Clients:          catalog_repo.NewClientRepo(txManager),
		Providers:        catalog_repo.NewProviderRepo(txManager),
		Sales:            document_repo.NewSaleRepo(txManager),
		Purchases:        document_repo.NewPurchaseRepo(txManager),
		SalePayments:     document_repo.NewSalePaymentRepo(txManager),
		PurchasePayments: document_repo.NewPurchasePaymentRepo(txManager),
		Profits:          register_repo.NewProfitRepo(txManager),
		Ledger:           register_repo.NewLedgerRepo(txManager),
		Expenses:         document_repo.NewExpenseRepo(txManager),
		Audit:            auditStore,
		Publisher:        postgres.NewOutboxPublisher(txManager),
		TxManager:        txManager,
	}, nil
}
