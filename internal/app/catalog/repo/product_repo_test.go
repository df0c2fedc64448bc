package repo

import (
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_product"
)

func newTestProduct(t *testing.T, sku, brandID string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.ProductState{
		ID:          "prod-" + sku,
		Title:       "Widget",
		Price:       domain.NewMoney(10, 1),
		SalePrice:   domain.NewMoney(8, 1),
		Stock:       5,
		SKU:         sku,
		BrandID:     brandID,
		Thumbnail:   "/media/thumbnail/a.png",
		ProductType: "physical",
		IsFeatured:  true,
		Attributes:  []domain.Attribute{{Name: "Color", Values: []string{"Red", "Blue"}}},
		Variations: []domain.Variation{{
			ID:              "var-1",
			SKU:             "W1-RED",
			Image:           "/media/variation-image/r.png",
			Price:           domain.NewMoney(1099, 100),
			SalePrice:       domain.NewMoney(999, 100),
			Stock:           2,
			SelectedOptions: domain.SelectedOptions{"Color": "Red"},
		}},
	}, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestInsertValues_StoresOptionalStringsAsNull(t *testing.T) {
	p := newTestProduct(t, "", "")

	values := buildInsertValues(p)

	assert.Equal(t, spanner.NullString{}, values[m_product.ColSKU])
	assert.Equal(t, spanner.NullString{}, values[m_product.ColBrandID])
	assert.Equal(t, spanner.NullString{}, values[m_product.ColDescription])
	assert.Equal(t, []string{}, values[m_product.ColImages])
	assert.Equal(t, int64(1), values[m_product.ColVersion])
}

func TestInsertValues_PricesAsExactFractions(t *testing.T) {
	p := newTestProduct(t, "W1", "B1")

	values := buildInsertValues(p)

	assert.Equal(t, int64(10), values[m_product.ColPriceNumerator])
	assert.Equal(t, int64(1), values[m_product.ColPriceDenominator])
	assert.Equal(t, int64(8), values[m_product.ColSalePriceNumerator])
	assert.Equal(t, spanner.NullString{StringVal: "W1", Valid: true}, values[m_product.ColSKU])
	assert.Equal(t, spanner.NullString{StringVal: "B1", Valid: true}, values[m_product.ColBrandID])
	assert.Contains(t, values[m_product.ColVariations], `"selected_options":{"Color":"Red"}`)
	require.NotNil(t, NewProductRepo().InsertMut(p))
}

func TestUpdateValues_OnlyDirtyColumns(t *testing.T) {
	p := domain.ReconstructProduct(newTestProduct(t, "W1", "B1").State())
	now := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	stock := int64(9)
	brand := "B2"
	require.NoError(t, p.Revise(domain.Revision{Stock: &stock, BrandID: &brand}, now))

	values := buildUpdateValues(p)

	assert.Len(t, values, 4)
	assert.Equal(t, int64(9), values[m_product.ColStock])
	assert.Equal(t, spanner.NullString{StringVal: "B2", Valid: true}, values[m_product.ColBrandID])
	assert.Equal(t, int64(2), values[m_product.ColVersion])
	assert.Equal(t, now, values[m_product.ColUpdatedAt])
}

func TestUpdateMut_NilWithoutChanges(t *testing.T) {
	p := domain.ReconstructProduct(newTestProduct(t, "W1", "").State())
	assert.Nil(t, NewProductRepo().UpdateMut(p))
}

func TestRowRoundTrip(t *testing.T) {
	p := newTestProduct(t, "W1", "B1")

	row, err := toRow(p)
	require.NoError(t, err)
	back, err := FromRow(row)
	require.NoError(t, err)

	assert.Equal(t, p.Title(), back.Title())
	assert.True(t, p.Price().Equals(back.Price()))
	assert.Equal(t, p.Attributes(), back.Attributes())
	require.Len(t, back.Variations(), 1)
	v := back.Variations()[0]
	assert.Equal(t, "var-1", v.ID)
	assert.True(t, domain.NewMoney(1099, 100).Equals(v.Price))
	assert.Equal(t, domain.SelectedOptions{"Color": "Red"}, v.SelectedOptions)
	assert.Equal(t, int64(1), back.ExpectedVersion())
}

func TestProductFilterSQL(t *testing.T) {
	featured := true
	where, params := ProductFilterSQL(contractsFilter("B1", "shoes", &featured), "p")

	assert.Equal(t, " WHERE p.brand_id = @brand AND p.category_id = @category AND p.is_featured = @featured", where)
	assert.Equal(t, "B1", params["brand"])
	assert.Equal(t, "shoes", params["category"])
	assert.Equal(t, true, params["featured"])

	where, params = ProductFilterSQL(contractsFilter("", "", nil), "")
	assert.Empty(t, where)
	assert.Empty(t, params)
}

func TestOutboxPayload_ProductCreated(t *testing.T) {
	p := newTestProduct(t, "W1", "B1")
	events := p.DomainEvents()
	require.Len(t, events, 1)

	payload, err := marshalEventPayload(events[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"product_id": "prod-W1",
		"title": "Widget",
		"sku": "W1",
		"brand_id": "B1",
		"price": {"numerator": 10, "denominator": 1},
		"created_at": "2024-05-01T12:00:00Z"
	}`, payload)
}
