package batch_delete_products

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	ut "github.com/murkotick/catalog-service/internal/app/catalog/usecases/usecasetest"
)

func TestBatchDelete_SkipsUnknownIDs(t *testing.T) {
	f := ut.New(t, "B2")
	p := f.Seed(t, "W1", "B2")

	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)
	n, err := it.Execute(f.Ctx, Request{IDs: []string{p.ID(), "idOfUnknown"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, f.Count(t, "B2"))
	for _, l := range p.Locators() {
		assert.False(t, f.Media.Has(l))
	}
}

func TestBatchDelete_EmptyIDs(t *testing.T) {
	f := ut.New(t)
	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)

	for _, ids := range [][]string{nil, {}, {"", "  "}} {
		_, err := it.Execute(f.Ctx, Request{IDs: ids})
		assert.True(t, errors.Is(err, domain.ErrValidation), "ids %q", ids)
	}
}

func TestBatchDelete_TallyPerBrand(t *testing.T) {
	f := ut.New(t, "B1", "B2")
	a := f.Seed(t, "A", "B1")
	b := f.Seed(t, "B", "B1")
	c := f.Seed(t, "C", "B2")
	d := f.Seed(t, "D", "")
	keep := f.Seed(t, "E", "B2")

	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)
	n, err := it.Execute(f.Ctx, Request{IDs: []string{a.ID(), b.ID(), c.ID(), d.ID(), a.ID()}})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Zero(t, f.Count(t, "B1"))
	assert.Equal(t, int64(1), f.Count(t, "B2"))
	assert.Equal(t, f.Store.ProductCount("B2"), f.Count(t, "B2"))
	assert.True(t, f.Media.Has(keep.Thumbnail()))
}

func TestBatchDelete_NothingMatched(t *testing.T) {
	f := ut.New(t)
	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)

	n, err := it.Execute(f.Ctx, Request{IDs: []string{"x", "y"}})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBatchDelete_StoreFailure(t *testing.T) {
	f := ut.New(t, "B1")
	p := f.Seed(t, "W1", "B1")
	f.Store.FailOn(repo.OpDeleteMany, errors.New("unavailable"))

	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)
	_, err := it.Execute(f.Ctx, Request{IDs: []string{p.ID()}})
	assert.True(t, errors.Is(err, domain.ErrStore))
	assert.Equal(t, int64(1), f.Count(t, "B1"))
}

func TestTally(t *testing.T) {
	mk := func(id, brand string) *domain.Product {
		return domain.ReconstructProduct(domain.ProductState{ID: id, BrandID: brand})
	}
	got := tally([]*domain.Product{mk("1", "B1"), mk("2", ""), mk("3", "B2"), mk("4", "B1")})
	assert.Equal(t, []brandTally{{brandID: "B1", count: 2}, {brandID: "B2", count: 1}}, got)
}
