package delete_product

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	ut "github.com/murkotick/catalog-service/internal/app/catalog/usecases/usecasetest"
)

func TestDelete_ReleasesMediaAndDecrements(t *testing.T) {
	f := ut.New(t, "B1")
	p := f.Seed(t, "W1", "B1")
	locators := p.Locators()
	require.Len(t, locators, 3)

	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)
	require.NoError(t, it.Execute(f.Ctx, Request{ProductID: p.ID()}))

	for _, l := range locators {
		assert.False(t, f.Media.Has(l), l)
	}
	_, err := f.Store.GetProduct(f.Ctx, p.ID())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Zero(t, f.Count(t, "B1"))

	events := f.Store.OutboxEvents()
	assert.Equal(t, "product.deleted", events[len(events)-1].EventType)
}

func TestDelete_NotFound(t *testing.T) {
	f := ut.New(t)
	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)

	err := it.Execute(f.Ctx, Request{ProductID: "missing"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = it.Execute(f.Ctx, Request{})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestDelete_ReleaseFailureIsNotFatal(t *testing.T) {
	f := ut.New(t, "B1")
	p := f.Seed(t, "W1", "B1")
	f.Media.FailRelease(errors.New("bucket unavailable"))

	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)
	require.NoError(t, it.Execute(f.Ctx, Request{ProductID: p.ID()}))

	assert.Zero(t, f.Store.ProductCount("B1"))
	assert.Zero(t, f.Count(t, "B1"))
	assert.True(t, f.Media.Has(p.Thumbnail()), "leaked, not fatal")
}

func TestDelete_ExpectedVersion(t *testing.T) {
	f := ut.New(t, "B1")
	p := f.Seed(t, "W1", "B1")

	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)
	err := it.Execute(f.Ctx, Request{ProductID: p.ID(), ExpectedVersion: ut.Int64(4)})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.True(t, f.Media.Has(p.Thumbnail()))
	assert.Equal(t, int64(1), f.Count(t, "B1"))
}

func TestDelete_CounterFailureIsNotFatal(t *testing.T) {
	f := ut.New(t, "B1")
	p := f.Seed(t, "W1", "B1")
	f.Store.FailOn(repo.OpAdjustCount, errors.New("counter down"))

	it := NewInteractor(f.Store, f.Media, f.Clock, f.Logger)
	require.NoError(t, it.Execute(f.Ctx, Request{ProductID: p.ID()}))
	assert.Zero(t, f.Store.ProductCount("B1"))
}
