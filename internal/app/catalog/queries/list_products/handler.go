package list_products

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

type Handler struct {
	readModel contracts.ReadModel
}

func NewHandler(r contracts.ReadModel) *Handler {
	return &Handler{readModel: r}
}

// Execute lists one page. Out-of-range page and limit values are clamped.
func (h *Handler) Execute(ctx context.Context, f contracts.ProductFilter) (*dto.ProductPageDTO, error) {
	return h.readModel.ListProducts(ctx, f.Normalize())
}
