package queries

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

// StoreReadModel serves reads from a CatalogStore. The memory driver uses it
// in place of the Spanner queries.
type StoreReadModel struct {
	store contracts.CatalogStore
}

func NewStoreReadModel(store contracts.CatalogStore) *StoreReadModel {
	return &StoreReadModel{store: store}
}

func (rm *StoreReadModel) GetProduct(ctx context.Context, productID string) (*dto.ProductDTO, error) {
	p, err := rm.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return rm.render(ctx, p, map[string]*domain.Brand{})
}

func (rm *StoreReadModel) ListProducts(ctx context.Context, f contracts.ProductFilter) (*dto.ProductPageDTO, error) {
	f = f.Normalize()
	products, total, err := rm.store.ListProducts(ctx, f)
	if err != nil {
		return nil, err
	}

	page := &dto.ProductPageDTO{
		Items: make([]*dto.ProductDTO, 0, len(products)),
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}
	brands := make(map[string]*domain.Brand)
	for _, p := range products {
		item, err := rm.render(ctx, p, brands)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

func (rm *StoreReadModel) GetBrand(ctx context.Context, brandID string) (*dto.BrandDTO, error) {
	b, err := rm.store.FindBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	return dto.FromBrand(b), nil
}

// render looks up the product's brand once per listing. A dangling brand
// reference renders with the id only.
func (rm *StoreReadModel) render(ctx context.Context, p *domain.Product, brands map[string]*domain.Brand) (*dto.ProductDTO, error) {
	id := p.BrandID()
	if id == "" {
		return dto.FromProduct(p, nil), nil
	}
	b, seen := brands[id]
	if !seen {
		var err error
		b, err = rm.store.FindBrand(ctx, id)
		if err != nil && domain.KindOf(err) != domain.KindBrandNotFound {
			return nil, err
		}
		brands[id] = b
	}
	return dto.FromProduct(p, b), nil
}
