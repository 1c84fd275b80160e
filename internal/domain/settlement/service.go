package settlement

import (
	"context"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/domain/registers/balance"
)

// Service is the payment reconciliation engine for sales and purchases.
type Service struct {
	sales     *Engine
	purchases *Engine
}

// ServiceConfig lists the collaborators of both sides.
type ServiceConfig struct {
	Sales            sale.Repository
	SalePayments     payment.Repository
	Purchases        purchase.Repository
	PurchasePayments payment.Repository
	Banks            *balance.Bank
	Ledger           *ledger.Ledger
	Audit            *audit.Recorder
	Publisher        events.Publisher
	TxManager        tx.Manager
}

// NewService creates the engines of both sides.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		sales: NewEngine(SaleSide(cfg.Sales, cfg.SalePayments),
			cfg.Banks, cfg.Ledger, cfg.Audit, cfg.Publisher, cfg.TxManager),
		purchases: NewEngine(PurchaseSide(cfg.Purchases, cfg.PurchasePayments),
			cfg.Banks, cfg.Ledger, cfg.Audit, cfg.Publisher, cfg.TxManager),
	}
}

func (s *Service) PaySale(ctx context.Context, saleID, bankID id.ID, amount types.Money) (*payment.View, error) {
	return s.sales.Pay(ctx, saleID, bankID, amount)
}

func (s *Service) UnpaySale(ctx context.Context, paymentID id.ID) (bool, error) {
	return s.sales.Unpay(ctx, paymentID)
}

func (s *Service) SalePayments(ctx context.Context, saleID id.ID) ([]payment.View, error) {
	return s.sales.List(ctx, saleID)
}

func (s *Service) PayPurchase(ctx context.Context, purchaseID, bankID id.ID, amount types.Money) (*payment.View, error) {
	return s.purchases.Pay(ctx, purchaseID, bankID, amount)
}

func (s *Service) UnpayPurchase(ctx context.Context, paymentID id.ID) (bool, error) {
	return s.purchases.Unpay(ctx, paymentID)
}

func (s *Service) PurchasePayments(ctx context.Context, purchaseID id.ID) ([]payment.View, error) {
	return s.purchases.List(ctx, purchaseID)
}
