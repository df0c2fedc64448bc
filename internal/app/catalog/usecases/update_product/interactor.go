package update_product

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/normalizer"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Request represents the update product request (partial updates allowed).
// Nil pointers, empty prices and nil slices leave the field unchanged.
//
// Images are appended unless DeleteAllImages is set, in which case the
// uploaded set replaces the old one. Variations are merged by id unless
// ReplaceAllVariations is set.
type Request struct {
	ProductID       string                  `json:"-"`
	ExpectedVersion *int64                  `json:"expectedVersion"`
	Title           *string                 `json:"title"`
	Description     *string                 `json:"description"`
	Price           json.Number             `json:"price" validate:"omitempty,money"`
	SalePrice       json.Number             `json:"salePrice" validate:"omitempty,money"`
	Stock           *int64                  `json:"stock" validate:"omitempty,gte=0"`
	SKU             *string                 `json:"sku"`
	BrandID         *string                 `json:"brand"`
	CategoryID      *string                 `json:"categoryId"`
	ProductType     *string                 `json:"productType"`
	IsFeatured      *bool                   `json:"isFeatured"`
	Attributes      []shared.AttributeInput `json:"attributes" validate:"dive"`
	Variations      []shared.VariationInput `json:"variations" validate:"dive"`

	DeleteAllImages      bool `json:"deleteAllImages"`
	ReplaceAllVariations bool `json:"replaceAllVariations"`

	Thumbnail       *contracts.Asset  `json:"-"`
	Images          []contracts.Asset `json:"-"`
	VariationImages []contracts.Asset `json:"-"`
}

// Interactor applies partial updates. Old assets are released only after
// the new record is committed.
type Interactor struct {
	Store      contracts.CatalogStore
	Media      contracts.MediaStore
	Clock      clock.Clock
	Logger     hclog.Logger
	Validation *shared.Validation
}

func NewInteractor(store contracts.CatalogStore, media contracts.MediaStore, clk clock.Clock, logger hclog.Logger) *Interactor {
	return &Interactor{
		Store:      store,
		Media:      media,
		Clock:      clk,
		Logger:     logger.Named("update_product"),
		Validation: shared.NewValidation(),
	}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (*domain.Product, error) {
	if err := it.Validation.Validate(req); err != nil {
		return nil, err
	}

	// 1. Load aggregate
	product, err := it.Store.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != product.Version() {
		return nil, domain.NewConflictError(product.ID())
	}

	rev := domain.Revision{
		Title:       req.Title,
		Description: req.Description,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ProductType: req.ProductType,
		IsFeatured:  req.IsFeatured,
	}
	if req.Price != "" {
		if rev.Price, err = shared.ParseMoney("price", req.Price); err != nil {
			return nil, err
		}
	}
	if req.SalePrice != "" {
		if rev.SalePrice, err = shared.ParseMoney("salePrice", req.SalePrice); err != nil {
			return nil, err
		}
	}

	// 2. SKU uniqueness excluding this product
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if sku != "" && sku != product.SKU() {
			taken, err := it.Store.FindProductBySKU(ctx, sku, product.ID())
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, domain.NewDuplicateSkuError(sku)
			}
		}
		rev.SKU = &sku
	}

	// Brand; an empty id clears it
	oldBrand := product.BrandID()
	if req.BrandID != nil {
		brandID := strings.TrimSpace(*req.BrandID)
		if brandID != "" && brandID != oldBrand {
			if _, err := it.Store.FindBrand(ctx, brandID); err != nil {
				return nil, err
			}
		}
		rev.BrandID = &brandID
	}

	// 5-6. Option schema, checked before anything is uploaded
	var plans []shared.VariationPlan
	if req.Attributes != nil || req.Variations != nil {
		attrs := product.Attributes()
		if req.Attributes != nil {
			attrs = shared.BuildAttributes(req.Attributes)
		}
		variations := product.Variations()
		if req.Variations != nil {
			existing := product.Variations()
			if req.ReplaceAllVariations {
				existing = nil
			}
			plans, err = shared.PlanVariations(req.Variations, req.VariationImages, req.ReplaceAllVariations, existing, product.Locators())
			if err != nil {
				return nil, err
			}
			variations = shared.Variations(plans)
		}

		attrs, variations, err = normalizer.Normalize(attrs, variations)
		if err != nil {
			return nil, err
		}
		if req.Attributes != nil {
			rev.Attributes = &attrs
		}
		if req.Variations != nil {
			rev.Variations = &variations
		}
	}

	// 3-4. Uploads
	before := product.Locators()
	var retained []string
	if req.Variations != nil && !req.ReplaceAllVariations {
		retained = droppedImages(product.Variations(), *rev.Variations)
	}
	session := shared.NewUploadSession(it.Media, it.Logger)
	if err := it.upload(ctx, session, req, product, plans, &rev); err != nil {
		session.Compensate(ctx)
		return nil, err
	}
	if err := product.Revise(rev, it.Clock.Now()); err != nil {
		session.Compensate(ctx)
		return nil, err
	}

	// 7. Persist, conditional on the loaded version
	if err := ctx.Err(); err != nil {
		session.Compensate(ctx)
		return nil, domain.NewStoreError(product.ID(), err)
	}
	if err := it.Store.UpdateProduct(ctx, product); err != nil {
		session.Compensate(ctx)
		return nil, err
	}

	it.Logger.Info("Product updated", "product_id", product.ID(), "version", product.Version())

	bctx, cancel := shared.Detached(ctx)
	defer cancel()

	// Replaced assets go only now that nothing references them
	shared.ReleaseAll(bctx, it.Media, it.Logger, shared.Obsolete(before, append(product.Locators(), retained...)))

	// 8. Counters
	if newBrand := product.BrandID(); newBrand != oldBrand {
		shared.AdjustCount(bctx, it.Store, it.Logger, oldBrand, -1)
		shared.AdjustCount(bctx, it.Store, it.Logger, newBrand, 1)
	}

	return product, nil
}

func (it *Interactor) upload(ctx context.Context, session *shared.UploadSession, req Request, product *domain.Product, plans []shared.VariationPlan, rev *domain.Revision) error {
	if req.Thumbnail != nil && len(req.Thumbnail.Content) > 0 {
		loc, err := session.Upload(ctx, *req.Thumbnail, contracts.PurposeThumbnail)
		if err != nil {
			return err
		}
		rev.Thumbnail = &loc
	}

	if req.DeleteAllImages || len(req.Images) > 0 {
		images := make([]string, 0, len(product.Images())+len(req.Images))
		if !req.DeleteAllImages {
			images = append(images, product.Images()...)
		}
		for _, img := range req.Images {
			loc, err := session.Upload(ctx, img, contracts.PurposeImage)
			if err != nil {
				return err
			}
			images = append(images, loc)
		}
		rev.Images = &images
	}

	if rev.Variations != nil {
		uploaded, err := session.UploadIndexed(ctx, req.VariationImages, shared.UploadIndexes(plans), contracts.PurposeVariationImage)
		if err != nil {
			return err
		}
		shared.AttachImages(*rev.Variations, plans, uploaded)
	}
	return nil
}

// droppedImages returns the images of variations a merge leaves out. Those
// are not released: a merge never deletes assets it was not asked to replace.
func droppedImages(old, merged []domain.Variation) []string {
	kept := make(map[string]bool, len(merged))
	for _, v := range merged {
		kept[v.ID] = true
	}
	var out []string
	for _, v := range old {
		if !kept[v.ID] {
			out = append(out, v.Image)
		}
	}
	return out
}
