package create_product

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/normalizer"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Request is the create-product request: the decoded product data plus the
// uploaded assets. VariationImages[i] serves variations[i] unless the
// variation names another upload with imageIndex.
type Request struct {
	Title       string                  `json:"title" validate:"required"`
	Description string                  `json:"description"`
	Price       json.Number             `json:"price" validate:"required,money"`
	SalePrice   json.Number             `json:"salePrice" validate:"required,money"`
	Stock       *int64                  `json:"stock" validate:"required,gte=0"`
	SKU         string                  `json:"sku"`
	BrandID     string                  `json:"brand"`
	CategoryID  string                  `json:"categoryId"`
	ProductType string                  `json:"productType" validate:"required"`
	IsFeatured  *bool                   `json:"isFeatured"`
	Attributes  []shared.AttributeInput `json:"attributes" validate:"dive"`
	Variations  []shared.VariationInput `json:"variations" validate:"dive"`

	Thumbnail       *contracts.Asset  `json:"-"`
	Images          []contracts.Asset `json:"-"`
	VariationImages []contracts.Asset `json:"-"`
}

// Interactor creates products: validate, check uniqueness and brand,
// normalize, upload, persist, then bump the brand counter.
type Interactor struct {
	Store      contracts.CatalogStore
	Media      contracts.MediaStore
	Clock      clock.Clock
	Logger     hclog.Logger
	Validation *shared.Validation
}

// NewInteractor constructs the interactor.
func NewInteractor(store contracts.CatalogStore, media contracts.MediaStore, clk clock.Clock, logger hclog.Logger) *Interactor {
	return &Interactor{
		Store:      store,
		Media:      media,
		Clock:      clk,
		Logger:     logger.Named("create_product"),
		Validation: shared.NewValidation(),
	}
}

// Execute creates the product and returns it. Nothing is persisted and every
// asset uploaded by this call is released when any step fails.
func (it *Interactor) Execute(ctx context.Context, req Request) (*domain.Product, error) {
	// 1. Required fields
	if err := it.Validation.Validate(req); err != nil {
		return nil, err
	}
	if req.Thumbnail == nil || len(req.Thumbnail.Content) == 0 {
		return nil, domain.NewValidationError("thumbnail", "thumbnail is required")
	}
	price, err := shared.ParseMoney("price", req.Price)
	if err != nil {
		return nil, err
	}
	salePrice, err := shared.ParseMoney("salePrice", req.SalePrice)
	if err != nil {
		return nil, err
	}

	// 2. SKU uniqueness; the store's unique index is the final word
	sku := strings.TrimSpace(req.SKU)
	if sku != "" {
		taken, err := it.Store.FindProductBySKU(ctx, sku, "")
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, domain.NewDuplicateSkuError(sku)
		}
	}

	// 3. Brand
	brandID := strings.TrimSpace(req.BrandID)
	if brandID != "" {
		if _, err := it.Store.FindBrand(ctx, brandID); err != nil {
			return nil, err
		}
	}

	// 4. Option schema
	plans, err := shared.PlanVariations(req.Variations, req.VariationImages, true, nil, nil)
	if err != nil {
		return nil, err
	}
	attrs, variations, err := normalizer.Normalize(shared.BuildAttributes(req.Attributes), shared.Variations(plans))
	if err != nil {
		return nil, err
	}

	// 5. Uploads
	session := shared.NewUploadSession(it.Media, it.Logger)
	product, err := it.build(ctx, session, req, plans, domain.ProductState{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		SalePrice:   salePrice,
		Stock:       *req.Stock,
		SKU:         sku,
		BrandID:     brandID,
		CategoryID:  req.CategoryID,
		ProductType: req.ProductType,
		IsFeatured:  req.IsFeatured == nil || *req.IsFeatured,
		Attributes:  attrs,
		Variations:  variations,
	})
	if err != nil {
		session.Compensate(ctx)
		return nil, err
	}

	// 6. Persist
	if err := ctx.Err(); err != nil {
		session.Compensate(ctx)
		return nil, domain.NewStoreError(product.ID(), err)
	}
	if err := it.Store.InsertProduct(ctx, product); err != nil {
		session.Compensate(ctx)
		return nil, err
	}

	it.Logger.Info("Product created", "product_id", product.ID(), "sku", product.SKU(), "brand_id", product.BrandID())

	// 7. Counter, best-effort once the product exists
	bctx, cancel := shared.Detached(ctx)
	defer cancel()
	shared.AdjustCount(bctx, it.Store, it.Logger, brandID, 1)

	return product, nil
}

func (it *Interactor) build(ctx context.Context, session *shared.UploadSession, req Request, plans []shared.VariationPlan, state domain.ProductState) (*domain.Product, error) {
	thumb, err := session.Upload(ctx, *req.Thumbnail, contracts.PurposeThumbnail)
	if err != nil {
		return nil, err
	}
	state.Thumbnail = thumb

	state.Images = make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		loc, err := session.Upload(ctx, img, contracts.PurposeImage)
		if err != nil {
			return nil, err
		}
		state.Images = append(state.Images, loc)
	}

	uploaded, err := session.UploadIndexed(ctx, req.VariationImages, shared.UploadIndexes(plans), contracts.PurposeVariationImage)
	if err != nil {
		return nil, err
	}
	shared.AttachImages(state.Variations, plans, uploaded)

	return domain.NewProduct(state, it.Clock.Now())
}
