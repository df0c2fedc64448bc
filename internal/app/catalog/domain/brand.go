package domain

import (
	"strings"
	"time"
)

// Brand groups products. ProductsCount is a denormalized counter of the
// products referencing the brand; only the catalog store adjusts it.
type Brand struct {
	ID            string
	Name          string
	Image         string
	IsFeatured    bool
	ProductsCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBrand creates a brand with a zero product counter.
func NewBrand(id, name, image string, featured bool, now time.Time) (*Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "brand name is required")
	}
	if strings.TrimSpace(image) == "" {
		return nil, NewValidationError("image", "brand image is required")
	}
	return &Brand{
		ID:         id,
		Name:       name,
		Image:      image,
		IsFeatured: featured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
