package get_product

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/models/m_brand"
	"github.com/murkotick/catalog-service/internal/models/m_product"
)

// SpannerGetProductQuery reads one product with its brand summary straight
// from Spanner.
type SpannerGetProductQuery struct {
	Client *spanner.Client
}

func NewSpannerGetProductQuery(client *spanner.Client) *SpannerGetProductQuery {
	return &SpannerGetProductQuery{Client: client}
}

// ProductWithBrandSQL selects every product column followed by the brand's
// name and image (NULL when the product has no brand).
func ProductWithBrandSQL() string {
	return `SELECT ` + m_product.SelectList("p") + `, b.` + m_brand.ColName + `, b.` + m_brand.ColImage + `
		FROM ` + m_product.TableName + ` p
		LEFT JOIN ` + m_brand.TableName + ` b ON b.` + m_brand.ColBrandID + ` = p.` + m_product.ColBrandID
}

func (q *SpannerGetProductQuery) GetProduct(ctx context.Context, productID string) (*dto.ProductDTO, error) {
	stmt := spanner.Statement{
		SQL:    ProductWithBrandSQL() + ` WHERE p.` + m_product.ColProductID + ` = @id`,
		Params: map[string]interface{}{"id": productID},
	}

	iter := q.Client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.NewNotFoundError(productID)
	}
	if err != nil {
		return nil, domain.NewStoreError(productID, err)
	}
	return ScanProduct(row)
}

// ScanProduct decodes a row selected with ProductWithBrandSQL.
func ScanProduct(row *spanner.Row) (*dto.ProductDTO, error) {
	var brandName, brandImage spanner.NullString
	r, err := m_product.Scan(row, &brandName, &brandImage)
	if err != nil {
		return nil, domain.NewStoreError("", err)
	}
	p, err := repo.FromRow(r)
	if err != nil {
		return nil, domain.NewStoreError(r.ProductID, err)
	}

	var brand *domain.Brand
	if brandName.Valid {
		brand = &domain.Brand{ID: p.BrandID(), Name: brandName.StringVal, Image: brandImage.StringVal}
	}
	return dto.FromProduct(p, brand), nil
}
