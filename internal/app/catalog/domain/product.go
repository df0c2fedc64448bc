package domain

import (
	"strings"
	"time"
)

// Field constants for change tracking
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldSalePrice   = "sale_price"
	FieldStock       = "stock"
	FieldSKU         = "sku"
	FieldBrand       = "brand"
	FieldThumbnail   = "thumbnail"
	FieldImages      = "images"
	FieldCategory    = "category"
	FieldProductType = "product_type"
	FieldFeatured    = "is_featured"
	FieldAttributes  = "attributes"
	FieldVariations  = "variations"
)

// ProductState is the flat, persisted shape of a product. Stores build
// products from it and read it back via Product.State.
type ProductState struct {
	ID          string
	Title       string
	Description string
	Price       *Money
	SalePrice   *Money
	Stock       int64
	SKU         string
	BrandID     string
	Thumbnail   string
	Images      []string
	CategoryID  string
	ProductType string
	IsFeatured  bool
	Attributes  []Attribute
	Variations  []Variation
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Product is the aggregate root of the catalog. It exclusively owns its
// variations and every media locator it references.
type Product struct {
	state           ProductState
	expectedVersion int64
	changes         *ChangeTracker
	pending         map[string]interface{}
	events          []DomainEvent
}

// NewProduct validates s and creates a product at version 1.
// Attributes and variations must already be normalized.
func NewProduct(s ProductState, now time.Time) (*Product, error) {
	s.Title = strings.TrimSpace(s.Title)
	s.SKU = strings.TrimSpace(s.SKU)
	s.ProductType = strings.TrimSpace(s.ProductType)
	s.CategoryID = strings.TrimSpace(s.CategoryID)

	if err := validateState(s); err != nil {
		return nil, err
	}

	s.Images = append([]string{}, s.Images...)
	s.Attributes = cloneAttributes(s.Attributes)
	s.Variations = cloneVariations(s.Variations)
	s.Version = 1
	s.CreatedAt = now
	s.UpdatedAt = now

	p := &Product{
		state:   s,
		changes: NewChangeTracker(),
		pending: make(map[string]interface{}),
		events:  make([]DomainEvent, 0),
	}

	p.events = append(p.events, &ProductCreatedEvent{
		ProductID: s.ID,
		Title:     s.Title,
		SKU:       s.SKU,
		BrandID:   s.BrandID,
		Price:     s.Price,
		CreatedAt: now,
	})

	return p, nil
}

// ReconstructProduct reconstructs a Product from persisted state.
// Used by stores when loading records.
func ReconstructProduct(s ProductState) *Product {
	s.Images = append([]string{}, s.Images...)
	s.Attributes = cloneAttributes(s.Attributes)
	s.Variations = cloneVariations(s.Variations)
	return &Product{
		state:           s,
		expectedVersion: s.Version,
		changes:         NewChangeTracker(),
		pending:         make(map[string]interface{}),
		events:          make([]DomainEvent, 0),
	}
}

// State returns a deep copy of the product's current state.
func (p *Product) State() ProductState {
	s := p.state
	s.Images = append([]string{}, s.Images...)
	s.Attributes = cloneAttributes(s.Attributes)
	s.Variations = cloneVariations(s.Variations)
	return s
}

// Getters

func (p *Product) ID() string {
	return p.state.ID
}

func (p *Product) Title() string {
	return p.state.Title
}

func (p *Product) Description() string {
	return p.state.Description
}

func (p *Product) Price() *Money {
	return p.state.Price
}

func (p *Product) SalePrice() *Money {
	return p.state.SalePrice
}

func (p *Product) Stock() int64 {
	return p.state.Stock
}

func (p *Product) SKU() string {
	return p.state.SKU
}

func (p *Product) BrandID() string {
	return p.state.BrandID
}

func (p *Product) Thumbnail() string {
	return p.state.Thumbnail
}

func (p *Product) Images() []string {
	return append([]string{}, p.state.Images...)
}

func (p *Product) CategoryID() string {
	return p.state.CategoryID
}

func (p *Product) ProductType() string {
	return p.state.ProductType
}

func (p *Product) IsFeatured() bool {
	return p.state.IsFeatured
}

func (p *Product) Attributes() []Attribute {
	return cloneAttributes(p.state.Attributes)
}

func (p *Product) Variations() []Variation {
	return cloneVariations(p.state.Variations)
}

func (p *Product) Version() int64 {
	return p.state.Version
}

func (p *Product) CreatedAt() time.Time {
	return p.state.CreatedAt
}

func (p *Product) UpdatedAt() time.Time {
	return p.state.UpdatedAt
}

func (p *Product) Changes() *ChangeTracker {
	return p.changes
}

func (p *Product) DomainEvents() []DomainEvent {
	return p.events
}

// ExpectedVersion is the version the product had when it was loaded. Stores
// reject a write when the persisted version no longer matches it.
func (p *Product) ExpectedVersion() int64 {
	return p.expectedVersion
}

// Locators returns every media locator the product owns, thumbnail first.
func (p *Product) Locators() []string {
	out := make([]string, 0, 1+len(p.state.Images)+len(p.state.Variations))
	seen := make(map[string]bool)
	add := func(l string) {
		if l == "" || seen[l] {
			return
		}
		seen[l] = true
		out = append(out, l)
	}
	add(p.state.Thumbnail)
	for _, img := range p.state.Images {
		add(img)
	}
	for _, v := range p.state.Variations {
		add(v.Image)
	}
	return out
}

// Revision carries the fields an update replaces. Nil fields are kept.
type Revision struct {
	Title       *string
	Description *string
	Price       *Money
	SalePrice   *Money
	Stock       *int64
	SKU         *string
	BrandID     *string
	Thumbnail   *string
	Images      *[]string
	CategoryID  *string
	ProductType *string
	IsFeatured  *bool
	Attributes  *[]Attribute
	Variations  *[]Variation
}

// Revise applies r, marking changed fields dirty. When anything changed the
// version is bumped once and a single ProductUpdatedEvent is recorded.
func (p *Product) Revise(r Revision, now time.Time) error {
	next := p.State()

	if r.Title != nil {
		next.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		next.Description = *r.Description
	}
	if r.Price != nil {
		next.Price = r.Price
	}
	if r.SalePrice != nil {
		next.SalePrice = r.SalePrice
	}
	if r.Stock != nil {
		next.Stock = *r.Stock
	}
	if r.SKU != nil {
		next.SKU = strings.TrimSpace(*r.SKU)
	}
	if r.BrandID != nil {
		next.BrandID = *r.BrandID
	}
	if r.Thumbnail != nil {
		next.Thumbnail = *r.Thumbnail
	}
	if r.Images != nil {
		next.Images = append([]string{}, (*r.Images)...)
	}
	if r.CategoryID != nil {
		next.CategoryID = strings.TrimSpace(*r.CategoryID)
	}
	if r.ProductType != nil {
		next.ProductType = strings.TrimSpace(*r.ProductType)
	}
	if r.IsFeatured != nil {
		next.IsFeatured = *r.IsFeatured
	}
	if r.Attributes != nil {
		next.Attributes = cloneAttributes(*r.Attributes)
	}
	if r.Variations != nil {
		next.Variations = cloneVariations(*r.Variations)
	}

	if err := validateState(next); err != nil {
		return err
	}

	prev := p.state
	p.track(FieldTitle, prev.Title != next.Title, next.Title)
	p.track(FieldDescription, prev.Description != next.Description, next.Description)
	p.track(FieldPrice, !next.Price.Equals(prev.Price), next.Price)
	p.track(FieldSalePrice, !next.SalePrice.Equals(prev.SalePrice), next.SalePrice)
	p.track(FieldStock, prev.Stock != next.Stock, next.Stock)
	p.track(FieldSKU, prev.SKU != next.SKU, next.SKU)
	p.track(FieldBrand, prev.BrandID != next.BrandID, next.BrandID)
	p.track(FieldThumbnail, prev.Thumbnail != next.Thumbnail, next.Thumbnail)
	p.track(FieldImages, !equalStrings(prev.Images, next.Images), next.Images)
	p.track(FieldCategory, prev.CategoryID != next.CategoryID, next.CategoryID)
	p.track(FieldProductType, prev.ProductType != next.ProductType, next.ProductType)
	p.track(FieldFeatured, prev.IsFeatured != next.IsFeatured, next.IsFeatured)
	// Schema changes are recorded whenever supplied; the event carries counts only.
	p.track(FieldAttributes, r.Attributes != nil, len(next.Attributes))
	p.track(FieldVariations, r.Variations != nil, len(next.Variations))

	if len(p.pending) == 0 {
		return nil
	}

	next.UpdatedAt = now
	if next.Version == p.expectedVersion {
		next.Version = p.expectedVersion + 1
	}
	p.state = next

	changes := make(map[string]interface{}, len(p.pending))
	for k, v := range p.pending {
		changes[k] = v
	}
	p.pending = make(map[string]interface{})

	p.events = append(p.events, &ProductUpdatedEvent{
		ProductID: next.ID,
		Version:   next.Version,
		UpdatedAt: now,
		Changes:   changes,
	})
	return nil
}

// MarkDeleted records the deletion event. The store removes the record.
func (p *Product) MarkDeleted(now time.Time) {
	p.events = append(p.events, &ProductDeletedEvent{
		ProductID: p.state.ID,
		BrandID:   p.state.BrandID,
		DeletedAt: now,
	})
}

// ClearEvents clears the accumulated domain events.
// Should be called after events have been published.
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}

func (p *Product) track(field string, changed bool, value interface{}) {
	if !changed {
		return
	}
	p.changes.MarkDirty(field)
	p.pending[field] = value
}

// Validation helpers

func validateState(s ProductState) error {
	if s.Title == "" {
		return NewValidationError("title", "title is required")
	}
	if s.ProductType == "" {
		return NewValidationError("productType", "product type is required")
	}
	if s.Thumbnail == "" {
		return NewValidationError("thumbnail", "thumbnail is required")
	}
	if s.Price == nil || s.Price.IsNegative() {
		return NewValidationError("price", "price must be a non-negative number")
	}
	if s.SalePrice == nil || s.SalePrice.IsNegative() {
		return NewValidationError("salePrice", "sale price must be a non-negative number")
	}
	if s.Stock < 0 {
		return NewValidationError("stock", "stock cannot be negative")
	}
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
