package dto

import (
	"time"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// FromProduct renders p. brand fills the summary's name and image; it may be
// nil, in which case only the id is reported.
func FromProduct(p *domain.Product, brand *domain.Brand) *ProductDTO {
	out := &ProductDTO{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Price:       money(p.Price()),
		SalePrice:   money(p.SalePrice()),
		Stock:       p.Stock(),
		SKU:         p.SKU(),
		Thumbnail:   p.Thumbnail(),
		Images:      p.Images(),
		CategoryID:  p.CategoryID(),
		ProductType: p.ProductType(),
		IsFeatured:  p.IsFeatured(),
		Attributes:  make([]AttributeDTO, 0, len(p.Attributes())),
		Variations:  make([]VariationDTO, 0, len(p.Variations())),
		Version:     p.Version(),
		CreatedAt:   timestamp(p.CreatedAt()),
		UpdatedAt:   timestamp(p.UpdatedAt()),
	}

	if id := p.BrandID(); id != "" {
		out.Brand = &BrandSummary{ID: id}
		if brand != nil && brand.ID == id {
			out.Brand.Name = brand.Name
			out.Brand.Image = brand.Image
		}
	}

	for _, a := range p.Attributes() {
		out.Attributes = append(out.Attributes, AttributeDTO{Name: a.Name, Values: a.Values})
	}
	for _, v := range p.Variations() {
		opts := make(map[string]string, len(v.SelectedOptions))
		for k, val := range v.SelectedOptions {
			opts[k] = val
		}
		out.Variations = append(out.Variations, VariationDTO{
			ID:              v.ID,
			SKU:             v.SKU,
			Image:           v.Image,
			Description:     v.Description,
			Price:           money(v.Price),
			SalePrice:       money(v.SalePrice),
			Stock:           v.Stock,
			SelectedOptions: opts,
		})
	}
	return out
}

func FromBrand(b *domain.Brand) *BrandDTO {
	return &BrandDTO{
		ID:            b.ID,
		Name:          b.Name,
		Image:         b.Image,
		IsFeatured:    b.IsFeatured,
		ProductsCount: b.ProductsCount,
		CreatedAt:     timestamp(b.CreatedAt),
		UpdatedAt:     timestamp(b.UpdatedAt),
	}
}

func money(m *domain.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
