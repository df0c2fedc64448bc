package repo

import (
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_outbox"
)

// OutboxRepo is the Spanner implementation of the transactional outbox repository.
// It returns *spanner.Mutation but never applies it.
type OutboxRepo struct{}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{}
}

func (r *OutboxRepo) InsertMut(e *contracts.OutboxEvent) *spanner.Mutation {
	if e == nil {
		return nil
	}

	values := m_outbox.BuildInsertMap(
		e.EventID,
		e.EventType,
		e.AggregateID,
		e.PayloadJSON,
		e.Status,
		e.CreatedAtUTC,
	)
	return m_outbox.InsertMutation(values)
}

// outboxEvents enriches the product's pending domain events for the outbox.
func outboxEvents(p *domain.Product, now time.Time) ([]*contracts.OutboxEvent, error) {
	events := p.DomainEvents()
	out := make([]*contracts.OutboxEvent, 0, len(events))
	for _, ev := range events {
		payload, err := marshalEventPayload(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, &contracts.OutboxEvent{
			EventID:      uuid.New().String(),
			EventType:    ev.EventType(),
			AggregateID:  ev.AggregateID(),
			PayloadJSON:  payload,
			Status:       contracts.OutboxStatusPending,
			CreatedAtUTC: now.UTC(),
		})
	}
	return out, nil
}
