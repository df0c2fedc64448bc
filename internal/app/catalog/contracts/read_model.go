package contracts

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

type ReadModel interface {
	GetProduct(ctx context.Context, productID string) (*dto.ProductDTO, error)
	ListProducts(ctx context.Context, f ProductFilter) (*dto.ProductPageDTO, error)
	GetBrand(ctx context.Context, brandID string) (*dto.BrandDTO, error)
}
