package list_products

import (
	"context"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/models/m_product"
)

// SpannerListProductsQuery lists products newest first with optional brand,
// category and featured filters.
type SpannerListProductsQuery struct {
	Client *spanner.Client
}

func NewSpannerListProductsQuery(client *spanner.Client) *SpannerListProductsQuery {
	return &SpannerListProductsQuery{Client: client}
}

func (q *SpannerListProductsQuery) ListProducts(ctx context.Context, f contracts.ProductFilter) (*dto.ProductPageDTO, error) {
	f = f.Normalize()
	where, params := repo.ProductFilterSQL(f, "p")

	// count and page from one snapshot
	tx := q.Client.ReadOnlyTransaction()
	defer tx.Close()

	total, err := q.count(ctx, tx, spanner.Statement{
		SQL:    `SELECT COUNT(*) FROM ` + m_product.TableName + ` p` + where,
		Params: params,
	})
	if err != nil {
		return nil, domain.NewStoreError("", err)
	}

	params["limit"] = int64(f.Limit)
	params["offset"] = int64(f.Offset())
	stmt := spanner.Statement{
		SQL: get_product.ProductWithBrandSQL() + where +
			` ORDER BY p.` + m_product.ColCreatedAt + ` DESC, p.` + m_product.ColProductID + ` LIMIT @limit OFFSET @offset`,
		Params: params,
	}

	iter := tx.Query(ctx, stmt)
	defer iter.Stop()

	page := &dto.ProductPageDTO{
		Items: make([]*dto.ProductDTO, 0, f.Limit),
		Total: int(total),
		Page:  f.Page,
		Limit: f.Limit,
	}
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return page, nil
		}
		if err != nil {
			return nil, domain.NewStoreError("", err)
		}
		item, err := get_product.ScanProduct(row)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, item)
	}
}

func (q *SpannerListProductsQuery) count(ctx context.Context, tx *spanner.ReadOnlyTransaction, stmt spanner.Statement) (int64, error) {
	iter := tx.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}
	var n int64
	err = row.Columns(&n)
	return n, err
}
