package m_brand

// Field constants for the brands table.
const (
	TableName = "brands"

	ColBrandID       = "brand_id"
	ColName          = "name"
	ColImage         = "image"
	ColIsFeatured    = "is_featured"
	ColProductsCount = "products_count"
	ColCreatedAt     = "created_at"
	ColUpdatedAt     = "updated_at"
)

// Columns lists every column in the order Scan expects.
var Columns = []string{
	ColBrandID,
	ColName,
	ColImage,
	ColIsFeatured,
	ColProductsCount,
	ColCreatedAt,
	ColUpdatedAt,
}
