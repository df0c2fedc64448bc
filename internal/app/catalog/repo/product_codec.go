package repo

import (
	"fmt"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_product"
)

// toRow flattens a product into its products row.
func toRow(p *domain.Product) (m_product.Row, error) {
	s := p.State()

	attrs := make([]m_product.AttributeRecord, len(s.Attributes))
	for i, a := range s.Attributes {
		attrs[i] = m_product.AttributeRecord{Name: a.Name, Values: a.Values}
	}
	attrsJSON, err := m_product.EncodeAttributes(attrs)
	if err != nil {
		return m_product.Row{}, fmt.Errorf("encode attributes: %w", err)
	}
	varsJSON, err := m_product.EncodeVariations(variationRecords(s.Variations))
	if err != nil {
		return m_product.Row{}, fmt.Errorf("encode variations: %w", err)
	}

	return m_product.Row{
		ProductID:            s.ID,
		Title:                s.Title,
		Description:          m_product.NullableString(s.Description),
		PriceNumerator:       s.Price.Numerator(),
		PriceDenominator:     s.Price.Denominator(),
		SalePriceNumerator:   s.SalePrice.Numerator(),
		SalePriceDenominator: s.SalePrice.Denominator(),
		Stock:                s.Stock,
		SKU:                  m_product.NullableString(s.SKU),
		BrandID:              m_product.NullableString(s.BrandID),
		Thumbnail:            s.Thumbnail,
		Images:               s.Images,
		CategoryID:           m_product.NullableString(s.CategoryID),
		ProductType:          s.ProductType,
		IsFeatured:           s.IsFeatured,
		AttributesJSON:       attrsJSON,
		VariationsJSON:       varsJSON,
		Version:              s.Version,
		CreatedAt:            s.CreatedAt.UTC(),
		UpdatedAt:            s.UpdatedAt.UTC(),
	}, nil
}

// FromRow rebuilds a product aggregate from its products row. Read queries
// use it too.
func FromRow(r m_product.Row) (*domain.Product, error) {
	attrs, err := m_product.DecodeAttributes(r.AttributesJSON)
	if err != nil {
		return nil, fmt.Errorf("decode attributes of %s: %w", r.ProductID, err)
	}
	vars, err := m_product.DecodeVariations(r.VariationsJSON)
	if err != nil {
		return nil, fmt.Errorf("decode variations of %s: %w", r.ProductID, err)
	}

	s := domain.ProductState{
		ID:          r.ProductID,
		Title:       r.Title,
		Description: r.Description.StringVal,
		Price:       domain.NewMoney(r.PriceNumerator, r.PriceDenominator),
		SalePrice:   domain.NewMoney(r.SalePriceNumerator, r.SalePriceDenominator),
		Stock:       r.Stock,
		SKU:         r.SKU.StringVal,
		BrandID:     r.BrandID.StringVal,
		Thumbnail:   r.Thumbnail,
		Images:      r.Images,
		CategoryID:  r.CategoryID.StringVal,
		ProductType: r.ProductType,
		IsFeatured:  r.IsFeatured,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, a := range attrs {
		s.Attributes = append(s.Attributes, domain.Attribute{Name: a.Name, Values: a.Values})
	}
	for _, v := range vars {
		s.Variations = append(s.Variations, domain.Variation{
			ID:              v.ID,
			SKU:             v.SKU,
			Image:           v.Image,
			Description:     v.Description,
			Price:           moneyFromRecord(v.Price),
			SalePrice:       moneyFromRecord(v.SalePrice),
			Stock:           v.Stock,
			SelectedOptions: domain.SelectedOptions(v.SelectedOptions),
		})
	}
	return domain.ReconstructProduct(s), nil
}

func variationRecords(in []domain.Variation) []m_product.VariationRecord {
	out := make([]m_product.VariationRecord, len(in))
	for i, v := range in {
		out[i] = m_product.VariationRecord{
			ID:              v.ID,
			SKU:             v.SKU,
			Image:           v.Image,
			Description:     v.Description,
			Price:           moneyRecord(v.Price),
			SalePrice:       moneyRecord(v.SalePrice),
			Stock:           v.Stock,
			SelectedOptions: v.SelectedOptions,
		}
	}
	return out
}

func moneyRecord(m *domain.Money) *m_product.MoneyRecord {
	if m == nil {
		return nil
	}
	return &m_product.MoneyRecord{Num: m.Numerator(), Den: m.Denominator()}
}

func moneyFromRecord(r *m_product.MoneyRecord) *domain.Money {
	if r == nil || r.Den == 0 {
		return nil
	}
	return domain.NewMoney(r.Num, r.Den)
}
