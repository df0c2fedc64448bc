package repo

import (
	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_brand"
)

// BrandRepo is the Spanner implementation of contracts.BrandRepo.
type BrandRepo struct{}

func NewBrandRepo() *BrandRepo {
	return &BrandRepo{}
}

func (r *BrandRepo) InsertMut(b *domain.Brand) *spanner.Mutation {
	if b == nil {
		return nil
	}
	return m_brand.InsertMutation(m_brand.BuildInsertMap(m_brand.Row{
		BrandID:       b.ID,
		Name:          b.Name,
		Image:         b.Image,
		IsFeatured:    b.IsFeatured,
		ProductsCount: b.ProductsCount,
		CreatedAt:     b.CreatedAt.UTC(),
		UpdatedAt:     b.UpdatedAt.UTC(),
	}))
}

func (r *BrandRepo) AdjustCountStmt(brandID string, delta int64) spanner.Statement {
	return m_brand.AdjustCountStatement(brandID, delta)
}

func BrandFromRow(r m_brand.Row) *domain.Brand {
	return &domain.Brand{
		ID:            r.BrandID,
		Name:          r.Name,
		Image:         r.Image,
		IsFeatured:    r.IsFeatured,
		ProductsCount: r.ProductsCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
