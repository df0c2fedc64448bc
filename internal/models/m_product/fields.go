package m_product

// Field constants for the products table.
const (
	TableName = "products"

	ColProductID            = "product_id"
	ColTitle                = "title"
	ColDescription          = "description"
	ColPriceNumerator       = "price_numerator"
	ColPriceDenominator     = "price_denominator"
	ColSalePriceNumerator   = "sale_price_numerator"
	ColSalePriceDenominator = "sale_price_denominator"
	ColStock                = "stock"
	ColSKU                  = "sku"
	ColBrandID              = "brand_id"
	ColThumbnail            = "thumbnail"
	ColImages               = "images"
	ColCategoryID           = "category_id"
	ColProductType          = "product_type"
	ColIsFeatured           = "is_featured"
	ColAttributes           = "attributes"
	ColVariations           = "variations"
	ColVersion              = "version"
	ColCreatedAt            = "created_at"
	ColUpdatedAt            = "updated_at"
)

// Columns lists every column in the order Row.Scan expects.
var Columns = []string{
	ColProductID,
	ColTitle,
	ColDescription,
	ColPriceNumerator,
	ColPriceDenominator,
	ColSalePriceNumerator,
	ColSalePriceDenominator,
	ColStock,
	ColSKU,
	ColBrandID,
	ColThumbnail,
	ColImages,
	ColCategoryID,
	ColProductType,
	ColIsFeatured,
	ColAttributes,
	ColVariations,
	ColVersion,
	ColCreatedAt,
	ColUpdatedAt,
}
