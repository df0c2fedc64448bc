package repo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Operation names accepted by MemoryStore.FailOn.
const (
	OpInsert      = "insert"
	OpUpdate      = "update"
	OpDelete      = "delete"
	OpDeleteMany  = "delete-many"
	OpAdjustCount = "adjust-count"
)

var errDuplicateID = errors.New("product id already exists")

// MemoryStore is an in-process contracts.CatalogStore. It keeps the same
// guarantees as the Spanner store (unique SKUs, clamped counters, version
// guarded writes) under a single lock, and records outbox events.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]domain.ProductState
	brands   map[string]domain.Brand
	skus     map[string]string
	outbox   []contracts.OutboxEvent
	failures map[string]error
	clock    clock.Clock
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		products: make(map[string]domain.ProductState),
		brands:   make(map[string]domain.Brand),
		skus:     make(map[string]string),
		failures: make(map[string]error),
		clock:    clk,
	}
}

// FailOn makes every subsequent op fail with err wrapped as a StoreError.
// A nil err clears the failure.
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *MemoryStore) InsertBrand(_ context.Context, b *domain.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands[b.ID] = *b
	return nil
}

func (s *MemoryStore) FindBrand(ctx context.Context, id string) (*domain.Brand, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError(id, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.brands[id]
	if !ok {
		return nil, domain.NewBrandNotFoundError(id)
	}
	return &b, nil
}

func (s *MemoryStore) AdjustBrandCount(ctx context.Context, id string, delta int64) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError(id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpAdjustCount, id); err != nil {
		return err
	}
	b, ok := s.brands[id]
	if !ok {
		return nil
	}
	b.ProductsCount += delta
	if b.ProductsCount < 0 {
		b.ProductsCount = 0
	}
	s.brands[id] = b
	return nil
}

func (s *MemoryStore) FindProductBySKU(ctx context.Context, sku, excludingID string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError(sku, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.skus[sku]
	if !ok || id == excludingID {
		return nil, nil
	}
	return domain.ReconstructProduct(s.products[id]), nil
}

func (s *MemoryStore) InsertProduct(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError(p.ID(), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpInsert, p.ID()); err != nil {
		return err
	}

	st := p.State()
	if _, exists := s.products[st.ID]; exists {
		return domain.NewStoreError(st.ID, errDuplicateID)
	}
	if st.SKU != "" {
		if _, taken := s.skus[st.SKU]; taken {
			return domain.NewDuplicateSkuError(st.SKU)
		}
		s.skus[st.SKU] = st.ID
	}
	s.products[st.ID] = st
	s.recordEvents(p)
	return nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError(id, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.products[id]
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}
	return domain.ReconstructProduct(st), nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError(p.ID(), err)
	}
	if !p.Changes().HasChanges() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpUpdate, p.ID()); err != nil {
		return err
	}
	current, err := s.guard(p)
	if err != nil {
		return err
	}

	st := p.State()
	if st.SKU != current.SKU {
		if owner, taken := s.skus[st.SKU]; st.SKU != "" && taken && owner != st.ID {
			return domain.NewDuplicateSkuError(st.SKU)
		}
		delete(s.skus, current.SKU)
		if st.SKU != "" {
			s.skus[st.SKU] = st.ID
		}
	}
	s.products[st.ID] = st
	s.recordEvents(p)
	p.Changes().Clear()
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError(p.ID(), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpDelete, p.ID()); err != nil {
		return err
	}
	current, err := s.guard(p)
	if err != nil {
		return err
	}
	s.remove(current)
	s.recordEvents(p)
	return nil
}

func (s *MemoryStore) FindProducts(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Product
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		st, ok := s.products[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, domain.ReconstructProduct(st))
	}
	return out, nil
}

func (s *MemoryStore) DeleteProducts(ctx context.Context, ps []*domain.Product) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpDeleteMany, ""); err != nil {
		return nil, err
	}
	var deleted []*domain.Product
	for _, p := range ps {
		st, ok := s.products[p.ID()]
		if !ok {
			continue
		}
		s.remove(st)
		s.recordEvents(p)
		deleted = append(deleted, p)
	}
	return deleted, nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, f contracts.ProductFilter) ([]*domain.Product, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, domain.NewStoreError("", err)
	}
	f = f.Normalize()

	s.mu.RLock()
	matched := make([]domain.ProductState, 0, len(s.products))
	for _, st := range s.products {
		if f.BrandID != "" && st.BrandID != f.BrandID {
			continue
		}
		if f.CategoryID != "" && st.CategoryID != f.CategoryID {
			continue
		}
		if f.Featured != nil && st.IsFeatured != *f.Featured {
			continue
		}
		matched = append(matched, st)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}

	out := make([]*domain.Product, 0, end-start)
	for _, st := range matched[start:end] {
		out = append(out, domain.ReconstructProduct(st))
	}
	return out, total, nil
}

// OutboxEvents returns a copy of every event recorded so far.
func (s *MemoryStore) OutboxEvents() []contracts.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]contracts.OutboxEvent(nil), s.outbox...)
}

// ProductCount reports how many products reference brandID, for checking
// the denormalized counter.
func (s *MemoryStore) ProductCount(brandID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, st := range s.products {
		if st.BrandID == brandID {
			n++
		}
	}
	return n
}

func (s *MemoryStore) guard(p *domain.Product) (domain.ProductState, error) {
	current, ok := s.products[p.ID()]
	if !ok {
		return domain.ProductState{}, domain.NewNotFoundError(p.ID())
	}
	if current.Version != p.ExpectedVersion() {
		return domain.ProductState{}, domain.NewConflictError(p.ID())
	}
	return current, nil
}

func (s *MemoryStore) remove(st domain.ProductState) {
	delete(s.products, st.ID)
	if st.SKU != "" && s.skus[st.SKU] == st.ID {
		delete(s.skus, st.SKU)
	}
}

func (s *MemoryStore) recordEvents(p *domain.Product) {
	events, err := outboxEvents(p, s.clock.Now())
	if err == nil {
		for _, e := range events {
			s.outbox = append(s.outbox, *e)
		}
	}
	p.ClearEvents()
}

func (s *MemoryStore) failure(op, id string) error {
	if err, ok := s.failures[op]; ok {
		return domain.NewStoreError(id, err)
	}
	return nil
}
