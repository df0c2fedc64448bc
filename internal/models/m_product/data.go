package m_product

import (
	"strings"
	"time"

	"cloud.google.com/go/spanner"
)

// Row is the flat products row. Optional strings are stored as NULL when
// empty so the NULL_FILTERED sku index ignores products without a SKU.
type Row struct {
	ProductID            string
	Title                string
	Description          spanner.NullString
	PriceNumerator       int64
	PriceDenominator     int64
	SalePriceNumerator   int64
	SalePriceDenominator int64
	Stock                int64
	SKU                  spanner.NullString
	BrandID              spanner.NullString
	Thumbnail            string
	Images               []string
	CategoryID           spanner.NullString
	ProductType          string
	IsFeatured           bool
	AttributesJSON       string
	VariationsJSON       string
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NullableString maps "" to NULL.
func NullableString(s string) spanner.NullString {
	if s == "" {
		return spanner.NullString{}
	}
	return spanner.NullString{StringVal: s, Valid: true}
}

// SelectList returns the column list for SELECT statements, optionally
// qualified with a table alias.
func SelectList(alias string) string {
	if alias == "" {
		return strings.Join(Columns, ", ")
	}
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// Scan reads a row selected with Columns. Columns selected after them are
// read into extra, in order.
func Scan(r *spanner.Row, extra ...interface{}) (Row, error) {
	var out Row
	dst := []interface{}{
		&out.ProductID,
		&out.Title,
		&out.Description,
		&out.PriceNumerator,
		&out.PriceDenominator,
		&out.SalePriceNumerator,
		&out.SalePriceDenominator,
		&out.Stock,
		&out.SKU,
		&out.BrandID,
		&out.Thumbnail,
		&out.Images,
		&out.CategoryID,
		&out.ProductType,
		&out.IsFeatured,
		&out.AttributesJSON,
		&out.VariationsJSON,
		&out.Version,
		&out.CreatedAt,
		&out.UpdatedAt,
	}
	err := r.Columns(append(dst, extra...)...)
	return out, err
}

// BuildInsertMap prepares every column for insertion.
func BuildInsertMap(r Row) map[string]interface{} {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return map[string]interface{}{
		ColProductID:            r.ProductID,
		ColTitle:                r.Title,
		ColDescription:          r.Description,
		ColPriceNumerator:       r.PriceNumerator,
		ColPriceDenominator:     r.PriceDenominator,
		ColSalePriceNumerator:   r.SalePriceNumerator,
		ColSalePriceDenominator: r.SalePriceDenominator,
		ColStock:                r.Stock,
		ColSKU:                  r.SKU,
		ColBrandID:              r.BrandID,
		ColThumbnail:            r.Thumbnail,
		ColImages:               images,
		ColCategoryID:           r.CategoryID,
		ColProductType:          r.ProductType,
		ColIsFeatured:           r.IsFeatured,
		ColAttributes:           r.AttributesJSON,
		ColVariations:           r.VariationsJSON,
		ColVersion:              r.Version,
		ColCreatedAt:            r.CreatedAt,
		ColUpdatedAt:            r.UpdatedAt,
	}
}

// InsertMutation builds a spanner.Insert mutation from a column map.
func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.Insert(TableName, cols, vals)
}

// UpdateMutation builds a spanner.Update mutation with product_id first
// followed by the given columns. values must not contain product_id.
func UpdateMutation(productID string, values map[string]interface{}) *spanner.Mutation {
	cols := []string{ColProductID}
	vals := []interface{}{productID}

	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}

	return spanner.Update(TableName, cols, vals)
}

func DeleteMutation(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}
