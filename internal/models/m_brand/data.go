package m_brand

import (
	"time"

	"cloud.google.com/go/spanner"
)

type Row struct {
	BrandID       string
	Name          string
	Image         string
	IsFeatured    bool
	ProductsCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Scan(r *spanner.Row) (Row, error) {
	var out Row
	err := r.Columns(&out.BrandID, &out.Name, &out.Image, &out.IsFeatured,
		&out.ProductsCount, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func BuildInsertMap(r Row) map[string]interface{} {
	return map[string]interface{}{
		ColBrandID:       r.BrandID,
		ColName:          r.Name,
		ColImage:         r.Image,
		ColIsFeatured:    r.IsFeatured,
		ColProductsCount: r.ProductsCount,
		ColCreatedAt:     r.CreatedAt,
		ColUpdatedAt:     r.UpdatedAt,
	}
}

func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for c, v := range values {
		cols = append(cols, c)
		vals = append(vals, v)
	}
	return spanner.Insert(TableName, cols, vals)
}

// AdjustCountStatement increments products_count by delta without letting it
// drop below zero. It matches no row when the brand does not exist.
func AdjustCountStatement(brandID string, delta int64) spanner.Statement {
	return spanner.Statement{
		SQL: `UPDATE ` + TableName + `
		      SET ` + ColProductsCount + ` = GREATEST(` + ColProductsCount + ` + @delta, 0)
		      WHERE ` + ColBrandID + ` = @id`,
		Params: map[string]interface{}{
			"id":    brandID,
			"delta": delta,
		},
	}
}
