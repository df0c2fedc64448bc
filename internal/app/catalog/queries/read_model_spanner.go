package queries

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_brand"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/list_products"
)

// SpannerReadModel is an infrastructure adapter that satisfies contracts.ReadModel.
// It composes the individual query implementations.
type SpannerReadModel struct {
	getQ   *get_product.SpannerGetProductQuery
	listQ  *list_products.SpannerListProductsQuery
	brandQ *get_brand.SpannerGetBrandQuery
}

func NewSpannerReadModel(client *spanner.Client) *SpannerReadModel {
	return &SpannerReadModel{
		getQ:   get_product.NewSpannerGetProductQuery(client),
		listQ:  list_products.NewSpannerListProductsQuery(client),
		brandQ: get_brand.NewSpannerGetBrandQuery(client),
	}
}

func (rm *SpannerReadModel) GetProduct(ctx context.Context, productID string) (*dto.ProductDTO, error) {
	return rm.getQ.GetProduct(ctx, productID)
}

func (rm *SpannerReadModel) ListProducts(ctx context.Context, f contracts.ProductFilter) (*dto.ProductPageDTO, error) {
	return rm.listQ.ListProducts(ctx, f)
}

func (rm *SpannerReadModel) GetBrand(ctx context.Context, brandID string) (*dto.BrandDTO, error) {
	return rm.brandQ.GetBrand(ctx, brandID)
}
