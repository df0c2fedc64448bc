package get_brand

import (
	"context"
	"strings"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

type Handler struct {
	readModel contracts.ReadModel
}

func NewHandler(r contracts.ReadModel) *Handler {
	return &Handler{readModel: r}
}

func (h *Handler) Execute(ctx context.Context, brandID string) (*dto.BrandDTO, error) {
	brandID = strings.TrimSpace(brandID)
	if brandID == "" {
		return nil, domain.NewValidationError("id", "brand id is required")
	}
	return h.readModel.GetBrand(ctx, brandID)
}
