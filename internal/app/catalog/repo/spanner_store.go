package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_brand"
	"github.com/murkotick/catalog-service/internal/models/m_product"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
	commitplan "github.com/murkotick/catalog-service/internal/pkg/committer"
)

// SpannerStore implements contracts.CatalogStore on Cloud Spanner.
//
// SKU uniqueness is enforced by the products_by_sku unique index, brand
// counters are adjusted with a single DML statement and every product write
// re-reads the stored version inside its transaction.
type SpannerStore struct {
	client    *spanner.Client
	committer contracts.Committer
	products  contracts.ProductRepo
	brands    contracts.BrandRepo
	outbox    contracts.OutboxRepo
	clock     clock.Clock
}

func NewSpannerStore(client *spanner.Client, committer contracts.Committer, clk clock.Clock) *SpannerStore {
	return &SpannerStore{
		client:    client,
		committer: committer,
		products:  NewProductRepo(),
		brands:    NewBrandRepo(),
		outbox:    NewOutboxRepo(),
		clock:     clk,
	}
}

// InsertBrand persists a new brand. Brands are managed outside the mutation
// engine; this exists for provisioning and tests.
func (s *SpannerStore) InsertBrand(ctx context.Context, b *domain.Brand) error {
	plan := commitplan.NewPlan()
	plan.Add(s.brands.InsertMut(b))
	if err := s.committer.Apply(ctx, plan); err != nil {
		return domain.NewStoreError(b.ID, err)
	}
	return nil
}

func (s *SpannerStore) FindBrand(ctx context.Context, id string) (*domain.Brand, error) {
	row, err := s.client.Single().ReadRow(ctx, m_brand.TableName, spanner.Key{id}, m_brand.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.NewBrandNotFoundError(id)
		}
		return nil, domain.NewStoreError(id, err)
	}
	r, err := m_brand.Scan(row)
	if err != nil {
		return nil, domain.NewStoreError(id, err)
	}
	return BrandFromRow(r), nil
}

func (s *SpannerStore) AdjustBrandCount(ctx context.Context, id string, delta int64) error {
	if id == "" || delta == 0 {
		return nil
	}
	plan := commitplan.NewPlan()
	plan.AddStatement(s.brands.AdjustCountStmt(id, delta))
	if err := s.committer.Apply(ctx, plan); err != nil {
		return domain.NewStoreError(id, err)
	}
	return nil
}

func (s *SpannerStore) FindProductBySKU(ctx context.Context, sku, excludingID string) (*domain.Product, error) {
	stmt := spanner.Statement{
		SQL: `SELECT ` + m_product.SelectList("") + `
		      FROM ` + m_product.TableName + `
		      WHERE sku = @sku AND product_id != @exclude
		      LIMIT 1`,
		Params: map[string]interface{}{"sku": sku, "exclude": excludingID},
	}
	products, err := s.query(ctx, s.client.Single(), stmt)
	if err != nil {
		return nil, domain.NewStoreError(sku, err)
	}
	if len(products) == 0 {
		return nil, nil
	}
	return products[0], nil
}

func (s *SpannerStore) InsertProduct(ctx context.Context, p *domain.Product) error {
	plan := commitplan.NewPlan()
	plan.Add(s.products.InsertMut(p))
	if err := s.addOutbox(plan, p); err != nil {
		return domain.NewStoreError(p.ID(), err)
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return s.writeError(p, err)
	}
	p.ClearEvents()
	return nil
}

func (s *SpannerStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row, err := s.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.NewNotFoundError(id)
		}
		return nil, domain.NewStoreError(id, err)
	}
	r, err := m_product.Scan(row)
	if err != nil {
		return nil, domain.NewStoreError(id, err)
	}
	p, err := FromRow(r)
	if err != nil {
		return nil, domain.NewStoreError(id, err)
	}
	return p, nil
}

func (s *SpannerStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if !p.Changes().HasChanges() {
		return nil
	}

	plan := commitplan.NewPlan()
	plan.AddGuard(versionGuard(p.ID(), p.ExpectedVersion()))
	plan.Add(s.products.UpdateMut(p))
	if err := s.addOutbox(plan, p); err != nil {
		return domain.NewStoreError(p.ID(), err)
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return s.writeError(p, err)
	}
	p.Changes().Clear()
	p.ClearEvents()
	return nil
}

func (s *SpannerStore) DeleteProduct(ctx context.Context, p *domain.Product) error {
	plan := commitplan.NewPlan()
	plan.AddGuard(versionGuard(p.ID(), p.ExpectedVersion()))
	plan.Add(s.products.DeleteMut(p))
	if err := s.addOutbox(plan, p); err != nil {
		return domain.NewStoreError(p.ID(), err)
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return s.writeError(p, err)
	}
	p.ClearEvents()
	return nil
}

func (s *SpannerStore) FindProducts(ctx context.Context, ids []string) ([]*domain.Product, error) {
	keys := make([]spanner.KeySet, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, spanner.Key{id})
	}
	if len(keys) == 0 {
		return nil, nil
	}

	iter := s.client.Single().Read(ctx, m_product.TableName, spanner.KeySets(keys...), m_product.Columns)
	defer iter.Stop()

	var out []*domain.Product
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, domain.NewStoreError(strings.Join(ids, ","), err)
		}
		r, err := m_product.Scan(row)
		if err != nil {
			return nil, domain.NewStoreError(strings.Join(ids, ","), err)
		}
		p, err := FromRow(r)
		if err != nil {
			return nil, domain.NewStoreError(r.ProductID, err)
		}
		out = append(out, p)
	}
}

func (s *SpannerStore) DeleteProducts(ctx context.Context, ps []*domain.Product) ([]*domain.Product, error) {
	if len(ps) == 0 {
		return nil, nil
	}

	byID := make(map[string]*domain.Product, len(ps))
	keys := make([]spanner.KeySet, 0, len(ps))
	for _, p := range ps {
		if _, dup := byID[p.ID()]; dup {
			continue
		}
		byID[p.ID()] = p
		keys = append(keys, spanner.Key{p.ID()})
	}

	var deleted []*domain.Product
	plan := commitplan.NewPlan()
	// Only rows still present at commit time are deleted, so the caller's
	// counter tally matches what actually disappeared.
	plan.AddGuard(func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		deleted = deleted[:0]
		iter := tx.Read(ctx, m_product.TableName, spanner.KeySets(keys...), []string{m_product.ColProductID})
		defer iter.Stop()

		var muts []*spanner.Mutation
		for {
			row, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return err
			}
			var id string
			if err := row.Column(0, &id); err != nil {
				return err
			}
			p := byID[id]
			muts = append(muts, s.products.DeleteMut(p))
			events, err := outboxEvents(p, s.clock.Now())
			if err != nil {
				return err
			}
			for _, e := range events {
				muts = append(muts, s.outbox.InsertMut(e))
			}
			deleted = append(deleted, p)
		}
		if len(muts) == 0 {
			return nil
		}
		return tx.BufferWrite(muts)
	})

	if err := s.committer.Apply(ctx, plan); err != nil {
		return nil, domain.NewStoreError(strings.Join(idsOf(ps), ","), err)
	}
	for _, p := range deleted {
		p.ClearEvents()
	}
	return deleted, nil
}

func (s *SpannerStore) ListProducts(ctx context.Context, f contracts.ProductFilter) ([]*domain.Product, int, error) {
	f = f.Normalize()
	where, params := ProductFilterSQL(f, "")

	tx := s.client.ReadOnlyTransaction()
	defer tx.Close()

	total, err := count(ctx, tx, spanner.Statement{
		SQL:    `SELECT COUNT(*) FROM ` + m_product.TableName + where,
		Params: params,
	})
	if err != nil {
		return nil, 0, domain.NewStoreError("", err)
	}

	listParams := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		listParams[k] = v
	}
	listParams["limit"] = int64(f.Limit)
	listParams["offset"] = int64(f.Offset())

	products, err := s.query(ctx, tx, spanner.Statement{
		SQL: `SELECT ` + m_product.SelectList("") + ` FROM ` + m_product.TableName + where +
			` ORDER BY created_at DESC, product_id LIMIT @limit OFFSET @offset`,
		Params: listParams,
	})
	if err != nil {
		return nil, 0, domain.NewStoreError("", err)
	}
	return products, int(total), nil
}

type queryer interface {
	Query(ctx context.Context, stmt spanner.Statement) *spanner.RowIterator
}

func (s *SpannerStore) query(ctx context.Context, q queryer, stmt spanner.Statement) ([]*domain.Product, error) {
	iter := q.Query(ctx, stmt)
	defer iter.Stop()

	var out []*domain.Product
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		r, err := m_product.Scan(row)
		if err != nil {
			return nil, err
		}
		p, err := FromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
}

func count(ctx context.Context, q queryer, stmt spanner.Statement) (int64, error) {
	iter := q.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ProductFilterSQL renders the WHERE clause shared by listing and counting.
// alias qualifies columns when the products table is joined.
func ProductFilterSQL(f contracts.ProductFilter, alias string) (string, map[string]interface{}) {
	col := func(c string) string {
		if alias == "" {
			return c
		}
		return alias + "." + c
	}

	var conds []string
	params := map[string]interface{}{}
	if f.BrandID != "" {
		conds = append(conds, col(m_product.ColBrandID)+" = @brand")
		params["brand"] = f.BrandID
	}
	if f.CategoryID != "" {
		conds = append(conds, col(m_product.ColCategoryID)+" = @category")
		params["category"] = f.CategoryID
	}
	if f.Featured != nil {
		conds = append(conds, col(m_product.ColIsFeatured)+" = @featured")
		params["featured"] = *f.Featured
	}
	if len(conds) == 0 {
		return "", params
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}

func idsOf(ps []*domain.Product) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID()
	}
	return ids
}

// versionGuard fails the transaction unless the stored product still has the
// expected version.
func versionGuard(id string, expected int64) commitplan.Guard {
	return func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		row, err := tx.ReadRow(ctx, m_product.TableName, spanner.Key{id}, []string{m_product.ColVersion})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return domain.NewNotFoundError(id)
			}
			return err
		}
		var current int64
		if err := row.Column(0, &current); err != nil {
			return err
		}
		if current != expected {
			return domain.NewConflictError(id)
		}
		return nil
	}
}

func (s *SpannerStore) addOutbox(plan *commitplan.Plan, p *domain.Product) error {
	events, err := outboxEvents(p, s.clock.Now())
	if err != nil {
		return err
	}
	for _, e := range events {
		plan.Add(s.outbox.InsertMut(e))
	}
	return nil
}

// writeError classifies a failed product commit.
func (s *SpannerStore) writeError(p *domain.Product, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	if spanner.ErrCode(err) == codes.AlreadyExists {
		return domain.NewDuplicateSkuError(p.SKU())
	}
	return domain.NewStoreError(p.ID(), fmt.Errorf("commit product: %w", err))
}
