package domain

import "time"

// DomainEvent is a marker interface for all domain events.
// Domain events represent facts about things that have happened in the domain.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// ProductCreatedEvent is raised when a new product is created.
type ProductCreatedEvent struct {
	ProductID string
	Title     string
	SKU       string
	BrandID   string
	Price     *Money
	CreatedAt time.Time
}

func (e *ProductCreatedEvent) EventType() string {
	return "product.created"
}

func (e *ProductCreatedEvent) AggregateID() string {
	return e.ProductID
}

func (e *ProductCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// ProductUpdatedEvent is raised when any product field is revised.
type ProductUpdatedEvent struct {
	ProductID string
	Version   int64
	UpdatedAt time.Time
	Changes   map[string]interface{} // Map of field name to new value
}

func (e *ProductUpdatedEvent) EventType() string {
	return "product.updated"
}

func (e *ProductUpdatedEvent) AggregateID() string {
	return e.ProductID
}

func (e *ProductUpdatedEvent) OccurredAt() time.Time {
	return e.UpdatedAt
}

// ProductDeletedEvent is raised when a product is removed from the catalog.
type ProductDeletedEvent struct {
	ProductID string
	BrandID   string
	DeletedAt time.Time
}

func (e *ProductDeletedEvent) EventType() string {
	return "product.deleted"
}

func (e *ProductDeletedEvent) AggregateID() string {
	return e.ProductID
}

func (e *ProductDeletedEvent) OccurredAt() time.Time {
	return e.DeletedAt
}
