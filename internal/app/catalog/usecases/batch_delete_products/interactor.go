package batch_delete_products

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

type Request struct {
	IDs []string `json:"ids"`
}

// Interactor deletes a set of products in one store operation. Unknown ids
// are skipped and each affected brand gets a single counter adjustment.
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
		Logger: logger.Named("batch_delete_products"),
	}
}

// Execute returns how many records were actually deleted.
func (it *Interactor) Execute(ctx context.Context, req Request) (int, error) {
	ids := dedup(req.IDs)
	if len(ids) == 0 {
		return 0, domain.NewValidationError("ids", "at least one product id is required")
	}

	products, err := it.Store.FindProducts(ctx, ids)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		return 0, nil
	}

	for _, p := range products {
		shared.ReleaseAll(ctx, it.Media, it.Logger.With("product_id", p.ID()), p.Locators())
	}

	if err := ctx.Err(); err != nil {
		return 0, domain.NewStoreError("", err)
	}
	now := it.Clock.Now()
	for _, p := range products {
		p.MarkDeleted(now)
	}
	deleted, err := it.Store.DeleteProducts(ctx, products)
	if err != nil {
		return 0, err
	}

	it.Logger.Info("Products deleted", "requested", len(ids), "deleted", len(deleted))

	bctx, cancel := shared.Detached(ctx)
	defer cancel()
	for _, t := range tally(deleted) {
		shared.AdjustCount(bctx, it.Store, it.Logger, t.brandID, -t.count)
	}

	return len(deleted), nil
}

type brandTally struct {
	brandID string
	count   int64
}

// tally counts deleted products per brand in first-seen order.
func tally(products []*domain.Product) []brandTally {
	var out []brandTally
	index := make(map[string]int)
	for _, p := range products {
		b := p.BrandID()
		if b == "" {
			continue
		}
		i, ok := index[b]
		if !ok {
			i = len(out)
			index[b] = i
			out = append(out, brandTally{brandID: b})
		}
		out[i].count++
	}
	return out
}

func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
