package dto

// ProductDTO is the full product shape returned by read queries and by the
// mutation endpoints. Prices are decimal strings with two places.
type ProductDTO struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Price       string         `json:"price"`
	SalePrice   string         `json:"salePrice"`
	Stock       int64          `json:"stock"`
	SKU         string         `json:"sku,omitempty"`
	Brand       *BrandSummary  `json:"brand,omitempty"`
	Thumbnail   string         `json:"thumbnail"`
	Images      []string       `json:"images"`
	CategoryID  string         `json:"categoryId,omitempty"`
	ProductType string         `json:"productType"`
	IsFeatured  bool           `json:"isFeatured"`
	Attributes  []AttributeDTO `json:"attributes"`
	Variations  []VariationDTO `json:"variations"`
	Version     int64          `json:"version"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

// BrandSummary is the brand reference embedded in a product.
// Name and Image are empty when the brand no longer exists.
type BrandSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

type AttributeDTO struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type VariationDTO struct {
	ID              string            `json:"id"`
	SKU             string            `json:"sku"`
	Image           string            `json:"image"`
	Description     string            `json:"description,omitempty"`
	Price           string            `json:"price"`
	SalePrice       string            `json:"salePrice"`
	Stock           int64             `json:"stock"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

// ProductPageDTO is one page of a product listing.
type ProductPageDTO struct {
	Items []*ProductDTO `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type BrandDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	IsFeatured    bool   `json:"isFeatured"`
	ProductsCount int64  `json:"productsCount"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// DeleteResultDTO reports a batch delete.
type DeleteResultDTO struct {
	Deleted int `json:"deleted"`
}
