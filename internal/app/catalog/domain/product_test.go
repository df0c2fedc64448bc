package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func validState() ProductState {
	return ProductState{
		ID:          "p1",
		Title:       "  Mug ",
		Price:       NewMoney(1200, 100),
		SalePrice:   NewMoney(10, 1),
		Stock:       3,
		SKU:         " MUG-1 ",
		Thumbnail:   "/media/thumbnail/a.png",
		Images:      []string{"/media/image/b.png", "/media/thumbnail/a.png"},
		ProductType: "physical",
		Variations: []Variation{
			{ID: "v1", SKU: "MUG-1-W", Image: "/media/variation-image/c.png"},
			{ID: "v2", SKU: "MUG-1-B", Image: "/media/variation-image/c.png"},
		},
	}
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(validState(), now)
	require.NoError(t, err)

	assert.Equal(t, "Mug", p.Title())
	assert.Equal(t, "MUG-1", p.SKU())
	assert.Equal(t, int64(1), p.Version())
	assert.Equal(t, now, p.CreatedAt())
	require.Len(t, p.DomainEvents(), 1)
	assert.Equal(t, "product.created", p.DomainEvents()[0].EventType())
}

func TestNewProduct_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ProductState)
		field string
	}{
		{"blank title", func(s *ProductState) { s.Title = "  " }, "title"},
		{"no product type", func(s *ProductState) { s.ProductType = "" }, "productType"},
		{"no thumbnail", func(s *ProductState) { s.Thumbnail = "" }, "thumbnail"},
		{"negative price", func(s *ProductState) { s.Price = NewMoney(-1, 1) }, "price"},
		{"missing sale price", func(s *ProductState) { s.SalePrice = nil }, "salePrice"},
		{"negative stock", func(s *ProductState) { s.Stock = -1 }, "stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			tt.edit(&s)
			_, err := NewProduct(s, now)
			require.ErrorIs(t, err, ErrValidation)

			var de *Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestProduct_Locators(t *testing.T) {
	p, err := NewProduct(validState(), now)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/media/thumbnail/a.png",
		"/media/image/b.png",
		"/media/variation-image/c.png",
	}, p.Locators())
}

func TestProduct_Revise(t *testing.T) {
	p := ReconstructProduct(ProductState{
		ID: "p1", Title: "Mug", Price: NewMoney(12, 1), SalePrice: NewMoney(10, 1),
		Thumbnail: "t", ProductType: "physical", Version: 4, CreatedAt: now,
	})

	title := "Big Mug"
	stock := int64(9)
	later := now.Add(time.Hour)
	require.NoError(t, p.Revise(Revision{Title: &title, Stock: &stock, Price: NewMoney(120, 10)}, later))

	assert.Equal(t, int64(5), p.Version(), "one bump per revision")
	assert.Equal(t, int64(4), p.ExpectedVersion())
	assert.Equal(t, later, p.UpdatedAt())
	assert.True(t, p.Changes().Dirty(FieldTitle))
	assert.True(t, p.Changes().Dirty(FieldStock))
	assert.False(t, p.Changes().Dirty(FieldPrice), "12 and 120/10 are the same amount")

	require.Len(t, p.DomainEvents(), 1)
	ev, ok := p.DomainEvents()[0].(*ProductUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(5), ev.Version)
	assert.Equal(t, "Big Mug", ev.Changes[FieldTitle])

	// A second revision in the same unit of work does not bump again.
	desc := "tall"
	require.NoError(t, p.Revise(Revision{Description: &desc}, later))
	assert.Equal(t, int64(5), p.Version())
}

func TestProduct_ReviseNoChanges(t *testing.T) {
	p := ReconstructProduct(ProductState{
		ID: "p1", Title: "Mug", Price: NewMoney(12, 1), SalePrice: NewMoney(10, 1),
		Thumbnail: "t", ProductType: "physical", Version: 2,
	})
	same := "Mug"
	require.NoError(t, p.Revise(Revision{Title: &same}, now))

	assert.Equal(t, int64(2), p.Version())
	assert.False(t, p.Changes().HasChanges())
	assert.Empty(t, p.DomainEvents())
}

func TestProduct_ReviseRejectsInvalid(t *testing.T) {
	p := ReconstructProduct(ProductState{
		ID: "p1", Title: "Mug", Price: NewMoney(12, 1), SalePrice: NewMoney(10, 1),
		Thumbnail: "t", ProductType: "physical", Version: 2,
	})
	blank := " "
	err := p.Revise(Revision{Title: &blank}, now)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Mug", p.Title(), "state untouched")
}

func TestProduct_StateIsACopy(t *testing.T) {
	p, err := NewProduct(validState(), now)
	require.NoError(t, err)

	s := p.State()
	s.Images[0] = "changed"
	s.Variations[0].SelectedOptions = SelectedOptions{"x": "y"}
	assert.Equal(t, "/media/image/b.png", p.Images()[0])
	assert.Nil(t, p.Variations()[0].SelectedOptions)
}

func TestParsePrice(t *testing.T) {
	m, err := ParsePrice("19.99")
	require.NoError(t, err)
	assert.Equal(t, "19.99", m.String())
	assert.Equal(t, int64(1999), m.Numerator())
	assert.Equal(t, int64(100), m.Denominator())

	m, err = ParsePrice("7")
	require.NoError(t, err)
	assert.Equal(t, "7.00", m.String())

	m, err = ParsePrice("9.990")
	require.NoError(t, err)
	assert.Equal(t, "9.99", m.String())

	_, err = ParsePrice("9.999")
	assert.Error(t, err, "sub-cent amounts would render rounded")
	_, err = ParsePrice("-1")
	assert.Error(t, err)
	_, err = ParsePrice("abc")
	assert.Error(t, err)
}

func TestError_IsMatchesKind(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewMediaStoreError("/media/a.png", cause))

	assert.ErrorIs(t, err, ErrMediaStore)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStore)
	assert.Equal(t, KindMediaStore, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(cause))
}
