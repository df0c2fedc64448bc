// Package usecasetest wires the in-memory catalog store and media store for
// interactor tests.
package usecasetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/media"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

var Epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type Fixture struct {
	Ctx    context.Context
	Store  *repo.MemoryStore
	Media  *media.Memory
	Clock  *clock.FakeClock
	Logger hclog.Logger
}

// New returns a fixture holding one empty brand per id.
func New(t *testing.T, brandIDs ...string) *Fixture {
	t.Helper()
	clk := clock.NewFake(Epoch)
	f := &Fixture{
		Ctx:    context.Background(),
		Store:  repo.NewMemoryStore(clk),
		Media:  media.NewMemory(),
		Clock:  clk,
		Logger: hclog.NewNullLogger(),
	}
	for _, id := range brandIDs {
		b, err := domain.NewBrand(id, "Brand "+id, "/media/brands/"+id+".png", false, Epoch)
		require.NoError(t, err)
		require.NoError(t, f.Store.InsertBrand(f.Ctx, b))
	}
	return f
}

// Count returns a brand's products counter.
func (f *Fixture) Count(t *testing.T, brandID string) int64 {
	t.Helper()
	b, err := f.Store.FindBrand(f.Ctx, brandID)
	require.NoError(t, err)
	return b.ProductsCount
}

// Seed stores a product whose thumbnail, single image and single variation
// image all exist in the media store, and counts it against its brand.
func (f *Fixture) Seed(t *testing.T, sku, brandID string) *domain.Product {
	t.Helper()
	thumb := fmt.Sprintf("mem://thumbnail/%s", sku)
	image := fmt.Sprintf("mem://image/%s", sku)
	varImage := fmt.Sprintf("mem://variation-image/%s-red", sku)
	for _, l := range []string{thumb, image, varImage} {
		f.Media.Put(l, []byte(l))
	}

	p, err := domain.NewProduct(domain.ProductState{
		ID:          "prod-" + sku,
		Title:       "Seeded " + sku,
		Price:       domain.NewMoney(10, 1),
		SalePrice:   domain.NewMoney(8, 1),
		Stock:       5,
		SKU:         sku,
		BrandID:     brandID,
		Thumbnail:   thumb,
		Images:      []string{image},
		ProductType: "physical",
		IsFeatured:  true,
		Attributes:  []domain.Attribute{{Name: "Color", Values: []string{"Red", "Blue"}}},
		Variations: []domain.Variation{{
			ID:              "var-red",
			SKU:             sku + "-RED",
			Image:           varImage,
			Price:           domain.NewMoney(10, 1),
			SalePrice:       domain.NewMoney(8, 1),
			Stock:           2,
			SelectedOptions: domain.SelectedOptions{"Color": "Red"},
		}},
	}, f.Clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.Store.InsertProduct(f.Ctx, p))
	if brandID != "" {
		require.NoError(t, f.Store.AdjustBrandCount(f.Ctx, brandID, 1))
	}

	loaded, err := f.Store.GetProduct(f.Ctx, p.ID())
	require.NoError(t, err)
	return loaded
}

// Asset returns a small named upload.
func Asset(name string) contracts.Asset {
	return contracts.Asset{Filename: name, Content: []byte("content of " + name)}
}

func AssetPtr(name string) *contracts.Asset {
	a := Asset(name)
	return &a
}

func Assets(names ...string) []contracts.Asset {
	out := make([]contracts.Asset, len(names))
	for i, n := range names {
		out[i] = Asset(n)
	}
	return out
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

func String(v string) *string { return &v }

func Int(v int) *int { return &v }
