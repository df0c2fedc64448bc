package get_brand

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/models/m_brand"
)

type SpannerGetBrandQuery struct {
	Client *spanner.Client
}

func NewSpannerGetBrandQuery(client *spanner.Client) *SpannerGetBrandQuery {
	return &SpannerGetBrandQuery{Client: client}
}

// GetBrand reads the brand with its current products counter.
func (q *SpannerGetBrandQuery) GetBrand(ctx context.Context, brandID string) (*dto.BrandDTO, error) {
	row, err := q.Client.Single().ReadRow(ctx, m_brand.TableName, spanner.Key{brandID}, m_brand.Columns)
	if spanner.ErrCode(err) == codes.NotFound {
		return nil, domain.NewBrandNotFoundError(brandID)
	}
	if err != nil {
		return nil, domain.NewStoreError(brandID, err)
	}
	r, err := m_brand.Scan(row)
	if err != nil {
		return nil, domain.NewStoreError(brandID, err)
	}
	return dto.FromBrand(repo.BrandFromRow(r)), nil
}
