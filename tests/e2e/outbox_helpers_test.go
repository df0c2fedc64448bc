package e2e

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/murkotick/catalog-service/internal/models/m_outbox"
)

// productEvent is one outbox row written for a product mutation.
type productEvent struct {
	EventID   string
	EventType string
	ProductID string
	Status    string
	CreatedAt time.Time
}

// productEvents returns the outbox rows of one product in commit order.
func productEvents(ctx context.Context, t *testing.T, client *spanner.Client, productID string) []productEvent {
	t.Helper()

	stmt := spanner.Statement{
		SQL: fmt.Sprintf(`SELECT %s FROM %s WHERE %s = @id ORDER BY %s, %s`,
			strings.Join(m_outbox.Columns, ", "), m_outbox.TableName,
			m_outbox.ColAggregateID, m_outbox.ColCreatedAt, m_outbox.ColEventID),
		Params: map[string]any{"id": productID},
	}
	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []productEvent
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out
		}
		require.NoError(t, err)

		var e productEvent
		require.NoError(t, row.Columns(&e.EventID, &e.EventType, &e.ProductID, &e.Status, &e.CreatedAt))
		out = append(out, e)
	}
}

func eventTypes(events []productEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType
	}
	return out
}
