package repo

import (
	"encoding/json"
	"fmt"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// marshalEventPayload converts a domain event into the JSON stored in the
// outbox. Money is written as numerator/denominator to stay exact.
func marshalEventPayload(ev domain.DomainEvent) (string, error) {
	if ev == nil {
		return "{}", nil
	}

	var payload map[string]interface{}
	switch e := ev.(type) {
	case *domain.ProductCreatedEvent:
		payload = map[string]interface{}{
			"product_id": e.ProductID,
			"title":      e.Title,
			"sku":        e.SKU,
			"brand_id":   e.BrandID,
			"price":      moneyPayload(e.Price),
			"created_at": e.CreatedAt,
		}

	case *domain.ProductUpdatedEvent:
		changes := make(map[string]interface{}, len(e.Changes))
		for k, v := range e.Changes {
			if m, ok := v.(*domain.Money); ok {
				changes[k] = moneyPayload(m)
				continue
			}
			changes[k] = v
		}
		payload = map[string]interface{}{
			"product_id":  e.ProductID,
			"version":     e.Version,
			"changes":     changes,
			"updated_at":  e.UpdatedAt,
			"occurred_at": e.OccurredAt(),
		}

	case *domain.ProductDeletedEvent:
		payload = map[string]interface{}{
			"product_id": e.ProductID,
			"brand_id":   e.BrandID,
			"deleted_at": e.DeletedAt,
		}

	default:
		b, err := json.Marshal(ev)
		if err != nil {
			return "", fmt.Errorf("marshal outbox payload for %T: %w", ev, err)
		}
		return string(b), nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal outbox payload for %s: %w", ev.EventType(), err)
	}
	return string(b), nil
}

func moneyPayload(m *domain.Money) interface{} {
	if m == nil {
		return nil
	}
	return map[string]interface{}{
		"numerator":   m.Numerator(),
		"denominator": m.Denominator(),
	}
}
