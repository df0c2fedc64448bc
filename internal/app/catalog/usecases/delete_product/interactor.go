package delete_product

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

type Request struct {
	ProductID       string
	ExpectedVersion *int64
}

// Interactor deletes one product: release its media, remove the record,
// decrement its brand.
type Interactor struct {
	Store  contracts.CatalogStore
	Media  contracts.MediaStore
	Clock  clock.Clock
	Logger hclog.Logger
}

func NewInteractor(store contracts.CatalogStore, media contracts.MediaStore, clk clock.Clock, logger hclog.Logger) *Interactor {
	return &Interactor{
		Store:  store,
		Media:  media,
		Clock:  clk,
		Logger: logger.Named("delete_product"),
	}
}

// Execute deletes the product. Release failures are logged and never block
// the record delete.
func (it *Interactor) Execute(ctx context.Context, req Request) error {
	if req.ProductID == "" {
		return domain.NewValidationError("id", "product id is required")
	}

	// 1. Load aggregate
	product, err := it.Store.GetProduct(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != product.Version() {
		return domain.NewConflictError(product.ID())
	}

	// 2. Media, each asset independently
	shared.ReleaseAll(ctx, it.Media, it.Logger.With("product_id", product.ID()), product.Locators())

	// 3. Record, conditional on the loaded version
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError(product.ID(), err)
	}
	product.MarkDeleted(it.Clock.Now())
	if err := it.Store.DeleteProduct(ctx, product); err != nil {
		return err
	}

	it.Logger.Info("Product deleted", "product_id", product.ID())

	// 4. Counter
	bctx, cancel := shared.Detached(ctx)
	defer cancel()
	shared.AdjustCount(bctx, it.Store, it.Logger, product.BrandID(), -1)

	return nil
}
