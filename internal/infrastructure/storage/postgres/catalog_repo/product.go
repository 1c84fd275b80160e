package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/internal/infrastructure/storage/postgres"
)

const productTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(txManager, CatalogOptions[*product.Product]{
			Table:      productTable,
			Entity:     "product",
			Columns:    postgres.ExtractDBColumns[product.Product](),
			Mutable:    []string{"reference", "description", "purchase_price", "sale_price", "active"},
			SearchCols: []string{"reference", "description"},
			OrderBy:    "reference",
			New:        func() *product.Product { return &product.Product{} },
			UniqueKey: func(p *product.Product) (string, string) {
				return "reference", p.Reference
			},
		}),
	}
}

// GetByReference retrieves a product by its reference code.
func (r *ProductRepo) GetByReference(ctx context.Context, reference string) (*product.Product, error) {
	p, err := r.FindOne(ctx, r.baseSelect().Where(squirrel.Eq{"reference": reference}).Limit(1))
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("product", reference)
	}
	return p, err
}

// AdjustQuantity implements product.Repository.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (bool, error) {
	return r.adjust(ctx, productID, r.adjustQuery(productID, delta))
}

func (r *ProductRepo) adjustQuery(productID id.ID, delta int64) squirrel.UpdateBuilder {
	return r.Builder().
		Update(productTable).
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Where(squirrel.Eq{"id": productID}).
		Where(squirrel.Expr("quantity + ? >= 0", delta))
}

var _ product.Repository = (*ProductRepo)(nil)
