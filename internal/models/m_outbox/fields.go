// Package m_outbox maps the outbox_events table. Every committed product
// mutation writes one row per domain event (product.created,
// product.updated, product.deleted) in the same transaction as the product
// row; a relay marks rows processed.
package m_outbox

const (
	TableName = "outbox_events"

	ColEventID     = "event_id"
	ColEventType   = "event_type"
	ColAggregateID = "aggregate_id"
	ColPayload     = "payload"
	ColStatus      = "status"
	ColCreatedAt   = "created_at"
	ColProcessedAt = "processed_at"
)

// Columns is the column list for reading an event back, payload and relay
// timestamp excluded.
var Columns = []string{ColEventID, ColEventType, ColAggregateID, ColStatus, ColCreatedAt}
