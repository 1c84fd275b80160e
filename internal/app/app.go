// Package app assembles the domain services on top of a set of repositories.
// cmd/server uses it with the Postgres store, tests with the memory store.
package app

import (
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/expense"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/domain/profit"
	"ledgerpos/internal/domain/registers/balance"
	"ledgerpos/internal/domain/registers/inventory"
	"ledgerpos/internal/domain/settlement"
	"ledgerpos/internal/infrastructure/storage/memory"
)

// Repositories is everything a store has to provide.
type Repositories struct {
	Products         product.Repository
	Banks            bank.Repository
	Clients          counterparty.Repository
	Providers        counterparty.Repository
	Sales            sale.Repository
	Purchases        purchase.Repository
	SalePayments     payment.Repository
	PurchasePayments payment.Repository
	Profits          profit.Repository
	Ledger           ledger.Repository
	Expenses         expense.Repository
	Audit            audit.Store
	Publisher        events.Publisher
	TxManager        tx.Manager
}

// Services is the assembled domain.
type Services struct {
	Products     *product.Service
	Inventory    *inventory.Stock
	Banks        *bank.Service
	Clients      *counterparty.Service
	Providers    *counterparty.Service
	Sales        *sale.Service
	Purchases    *purchase.Service
	Payments     *settlement.Service
	Transactions *ledger.Service
	Expenses     *expense.Service
	Profits      *profit.Service
	Audit        *audit.Recorder
}

// New wires the services.
func New(r Repositories) *Services {
	pub := r.Publisher
	if pub == nil {
		pub = events.Discard{}
	}

	stock := inventory.NewAdjuster(r.Products)
	banks := balance.NewBank(r.Banks)
	entries := ledger.New(r.Ledger)
	rec := audit.NewRecorder(r.Audit)

	return &Services{
		Products:  product.NewService(r.Products, rec, r.TxManager),
		Inventory: inventory.NewStock(r.Products, rec, r.TxManager),
		Banks:     bank.NewService(r.Banks, r.TxManager),
		Clients:   counterparty.NewService(counterparty.RoleClient, r.Clients, rec, r.TxManager),
		Providers: counterparty.NewService(counterparty.RoleProvider, r.Providers, rec, r.TxManager),
		Sales: sale.NewService(sale.ServiceConfig{
			Repo:      r.Sales,
			Clients:   r.Clients,
			Payments:  r.SalePayments,
			Profits:   r.Profits,
			Stock:     stock,
			Banks:     banks,
			Credit:    balance.NewClientCredit(r.Clients),
			Ledger:    entries,
			Audit:     rec,
			Publisher: pub,
			TxManager: r.TxManager,
		}),
		Purchases: purchase.NewService(purchase.ServiceConfig{
			Repo:      r.Purchases,
			Providers: r.Providers,
			Payments:  r.PurchasePayments,
			Stock:     stock,
			Banks:     banks,
			Credit:    balance.NewProviderCredit(r.Providers),
			Ledger:    entries,
			Audit:     rec,
			Publisher: pub,
			TxManager: r.TxManager,
		}),
		Payments: settlement.NewService(settlement.ServiceConfig{
			Sales:            r.Sales,
			SalePayments:     r.SalePayments,
			Purchases:        r.Purchases,
			PurchasePayments: r.PurchasePayments,
			Banks:            banks,
			Ledger:           entries,
			Audit:            rec,
			Publisher:        pub,
			TxManager:        r.TxManager,
		}),
		Transactions: ledger.NewService(r.Ledger, banks, rec, pub, r.TxManager),
		Expenses:     expense.NewService(r.Expenses, banks, entries, rec, pub, r.TxManager),
		Profits:      profit.NewService(r.Profits),
		Audit:        rec,
	}
}

// MemoryRepositories exposes a memory store as Repositories.
func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Products:         s.Products(),
		Banks:            s.Banks(),
		Clients:          s.Clients(),
		Providers:        s.Providers(),
		Sales:            s.Sales(),
		Purchases:        s.Purchases(),
		SalePayments:     s.SalePayments(),
		PurchasePayments: s.PurchasePayments(),
		Profits:          s.Profits(),
		Ledger:           s.Ledger(),
		Expenses:         s.Expenses(),
		Audit:            s.Audit(),
		Publisher:        s,
		TxManager:        s,
	}
}
