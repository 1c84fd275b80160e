package document_repo

import (
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// NewPurchaseRepo creates the purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *BaseDocumentRepo[purchase.Purchase] {
	return NewBaseDocumentRepo(txManager, "purchases", "purchase_lines", purchase.Entity,
		func(p *purchase.Purchase) *entity.Document { return &p.Document })
}

var _ purchase.Repository = (*BaseDocumentRepo[purchase.Purchase])(nil)
