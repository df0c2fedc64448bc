package repo

import (
	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_product"
)

// ProductRepo is the Spanner implementation of contracts.ProductRepo.
// It returns mutations but never applies them.
type ProductRepo struct{}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{}
}

// buildInsertValues constructs the values map used for insertion.
// Unexported so tests can inspect the map without relying on
// spanner.Mutation internals. Products are validated by the domain, so an
// encoding failure here is a programming error.
func buildInsertValues(p *domain.Product) map[string]interface{} {
	row, err := toRow(p)
	if err != nil {
		panic(err)
	}
	return m_product.BuildInsertMap(row)
}

// InsertMut builds an Insert mutation for a new product.
func (r *ProductRepo) InsertMut(p *domain.Product) *spanner.Mutation {
	return m_product.InsertMutation(buildInsertValues(p))
}

// buildUpdateValues maps the aggregate's dirty fields to columns. version and
// updated_at are stamped whenever anything changed.
func buildUpdateValues(p *domain.Product) map[string]interface{} {
	if p == nil || p.Changes() == nil || !p.Changes().HasChanges() {
		return nil
	}

	row, err := toRow(p)
	if err != nil {
		panic(err)
	}

	ch := p.Changes()
	updates := map[string]interface{}{}

	if ch.Dirty(domain.FieldTitle) {
		updates[m_product.ColTitle] = row.Title
	}
	if ch.Dirty(domain.FieldDescription) {
		updates[m_product.ColDescription] = row.Description
	}
	if ch.Dirty(domain.FieldPrice) {
		updates[m_product.ColPriceNumerator] = row.PriceNumerator
		updates[m_product.ColPriceDenominator] = row.PriceDenominator
	}
	if ch.Dirty(domain.FieldSalePrice) {
		updates[m_product.ColSalePriceNumerator] = row.SalePriceNumerator
		updates[m_product.ColSalePriceDenominator] = row.SalePriceDenominator
	}
	if ch.Dirty(domain.FieldStock) {
		updates[m_product.ColStock] = row.Stock
	}
	if ch.Dirty(domain.FieldSKU) {
		updates[m_product.ColSKU] = row.SKU
	}
	if ch.Dirty(domain.FieldBrand) {
		updates[m_product.ColBrandID] = row.BrandID
	}
	if ch.Dirty(domain.FieldThumbnail) {
		updates[m_product.ColThumbnail] = row.Thumbnail
	}
	if ch.Dirty(domain.FieldImages) {
		images := row.Images
		if images == nil {
			images = []string{}
		}
		updates[m_product.ColImages] = images
	}
	if ch.Dirty(domain.FieldCategory) {
		updates[m_product.ColCategoryID] = row.CategoryID
	}
	if ch.Dirty(domain.FieldProductType) {
		updates[m_product.ColProductType] = row.ProductType
	}
	if ch.Dirty(domain.FieldFeatured) {
		updates[m_product.ColIsFeatured] = row.IsFeatured
	}
	if ch.Dirty(domain.FieldAttributes) {
		updates[m_product.ColAttributes] = row.AttributesJSON
	}
	if ch.Dirty(domain.FieldVariations) {
		updates[m_product.ColVariations] = row.VariationsJSON
	}

	if len(updates) == 0 {
		return nil
	}

	updates[m_product.ColVersion] = row.Version
	updates[m_product.ColUpdatedAt] = row.UpdatedAt
	return updates
}

// UpdateMut builds an Update mutation using the aggregate's ChangeTracker.
func (r *ProductRepo) UpdateMut(p *domain.Product) *spanner.Mutation {
	updates := buildUpdateValues(p)
	if updates == nil {
		return nil
	}
	return m_product.UpdateMutation(p.ID(), updates)
}

func (r *ProductRepo) DeleteMut(p *domain.Product) *spanner.Mutation {
	if p == nil {
		return nil
	}
	return m_product.DeleteMutation(p.ID())
}
