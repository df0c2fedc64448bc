package contracts

import (
	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// ProductRepo builds Spanner writes for products. Methods return mutations;
// they do not apply them.
type ProductRepo interface {
	// InsertMut returns a mutation that inserts the product.
	InsertMut(p *domain.Product) *spanner.Mutation
	// UpdateMut returns a mutation for the product's dirty fields (or nil).
	UpdateMut(p *domain.Product) *spanner.Mutation
	DeleteMut(p *domain.Product) *spanner.Mutation
}

// BrandRepo builds Spanner writes for brands.
type BrandRepo interface {
	InsertMut(b *domain.Brand) *spanner.Mutation
	// AdjustCountStmt returns a DML increment of products_count clamped at zero.
	AdjustCountStmt(brandID string, delta int64) spanner.Statement
}
