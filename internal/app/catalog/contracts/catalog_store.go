package contracts

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// CatalogStore persists products and brands. It owns SKU uniqueness and the
// brand products counter. Every method returns *domain.Error values so the
// orchestrator can react by kind.
type CatalogStore interface {
	FindBrand(ctx context.Context, id string) (*domain.Brand, error)
	// AdjustBrandCount atomically adds delta to the brand's products counter,
	// clamping at zero. Unknown brands are a no-op.
	AdjustBrandCount(ctx context.Context, id string, delta int64) error

	// FindProductBySKU returns the product holding sku, ignoring excludingID,
	// or nil when there is none.
	FindProductBySKU(ctx context.Context, sku, excludingID string) (*domain.Product, error)

	// InsertProduct persists a new product and its pending domain events.
	// A concurrent insert of the same SKU fails with DuplicateSku.
	InsertProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	// UpdateProduct writes the dirty fields of p if the stored version still
	// equals p.ExpectedVersion(), otherwise it fails with ConflictError.
	UpdateProduct(ctx context.Context, p *domain.Product) error
	// DeleteProduct removes p under the same version guard as UpdateProduct.
	DeleteProduct(ctx context.Context, p *domain.Product) error

	// FindProducts loads the products among ids that exist. Missing ids are
	// skipped.
	FindProducts(ctx context.Context, ids []string) ([]*domain.Product, error)
	// DeleteProducts removes ps in one operation and returns the products
	// that actually existed and were removed.
	DeleteProducts(ctx context.Context, ps []*domain.Product) ([]*domain.Product, error)

	ListProducts(ctx context.Context, f ProductFilter) ([]*domain.Product, int, error)
}

// ProductFilter narrows a product listing. Zero values mean "any".
// Results are ordered newest first.
type ProductFilter struct {
	BrandID    string
	CategoryID string
	Featured   *bool
	Page       int
	Limit      int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps paging to sane bounds.
func (f ProductFilter) Normalize() ProductFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

// Offset is the number of rows skipped for the filter's page.
func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
