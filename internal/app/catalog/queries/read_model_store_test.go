package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_brand"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/list_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *repo.MemoryStore, id, brand string, featured bool, at time.Time) {
	t.Helper()
	p, err := domain.NewProduct(domain.ProductState{
		ID:          id,
		Title:       "Product " + id,
		Price:       domain.NewMoney(1999, 100),
		SalePrice:   domain.NewMoney(15, 1),
		Stock:       3,
		SKU:         "SKU-" + id,
		BrandID:     brand,
		Thumbnail:   "/media/thumbnail/" + id + ".png",
		ProductType: "physical",
		IsFeatured:  featured,
		Attributes:  []domain.Attribute{{Name: "Size", Values: []string{"S", "M"}}},
		Variations: []domain.Variation{{
			ID:              "v-" + id,
			SKU:             "SKU-" + id + "-S",
			Image:           "/media/variation-image/" + id + ".png",
			Price:           domain.NewMoney(20, 1),
			SalePrice:       domain.NewMoney(18, 1),
			Stock:           1,
			SelectedOptions: domain.SelectedOptions{"Size": "S"},
		}},
	}, at)
	require.NoError(t, err)
	require.NoError(t, s.InsertProduct(context.Background(), p))
}

func newReadModel(t *testing.T) (*StoreReadModel, *repo.MemoryStore) {
	t.Helper()
	s := repo.NewMemoryStore(clock.NewFake(epoch))
	b, err := domain.NewBrand("B1", "Acme", "/media/brands/acme.png", true, epoch)
	require.NoError(t, err)
	b.ProductsCount = 2
	require.NoError(t, s.InsertBrand(context.Background(), b))

	seed(t, s, "p1", "B1", true, epoch)
	seed(t, s, "p2", "B1", false, epoch.Add(time.Hour))
	seed(t, s, "p3", "", true, epoch.Add(2*time.Hour))
	seed(t, s, "p4", "gone", true, epoch.Add(3*time.Hour))
	return NewStoreReadModel(s), s
}

func TestGetProduct(t *testing.T) {
	rm, _ := newReadModel(t)
	h := get_product.NewHandler(rm)

	got, err := h.Execute(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "19.99", got.Price)
	assert.Equal(t, "15.00", got.SalePrice)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "Acme", got.Brand.Name)
	assert.Equal(t, "/media/brands/acme.png", got.Brand.Image)
	assert.Equal(t, "2024-05-01T12:00:00Z", got.CreatedAt)
	require.Len(t, got.Variations, 1)
	assert.Equal(t, map[string]string{"Size": "S"}, got.Variations[0].SelectedOptions)
	assert.Equal(t, "20.00", got.Variations[0].Price)

	dangling, err := h.Execute(context.Background(), "p4")
	require.NoError(t, err)
	assert.Equal(t, "gone", dangling.Brand.ID)
	assert.Empty(t, dangling.Brand.Name)

	_, err = h.Execute(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = h.Execute(context.Background(), " ")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListProducts(t *testing.T) {
	rm, _ := newReadModel(t)
	h := list_products.NewHandler(rm)
	ctx := context.Background()

	page, err := h.Execute(ctx, contracts.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, contracts.DefaultPageLimit, page.Limit)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "p4", page.Items[0].ID, "newest first")

	featured := true
	page, err = h.Execute(ctx, contracts.ProductFilter{BrandID: "B1", Featured: &featured})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].ID)

	page, err = h.Execute(ctx, contracts.ProductFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].ID)
}

func TestGetBrand(t *testing.T) {
	rm, _ := newReadModel(t)
	h := get_brand.NewHandler(rm)

	b, err := h.Execute(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, int64(2), b.ProductsCount)

	_, err = h.Execute(context.Background(), "B9")
	assert.True(t, errors.Is(err, domain.ErrBrandNotFound))
}
