package document_repo

import (
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

// NewSaleRepo creates the sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *BaseDocumentRepo[sale.Sale] {
	return NewBaseDocumentRepo(txManager, "sales", "sale_lines", sale.Entity,
		func(s *sale.Sale) *entity.Document { return &s.Document })
}

var _ sale.Repository = (*BaseDocumentRepo[sale.Sale])(nil)
