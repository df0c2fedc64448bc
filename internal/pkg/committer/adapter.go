package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

type Adapter struct {
	client *spanner.Client
}

func NewAdapter(client *spanner.Client) *Adapter {
	return &Adapter{client: client}
}

// Apply runs the plan in a single read-write transaction. Guards run first,
// then DML, then the buffered mutations are committed. The transaction body
// may be retried by the client, so guards must be idempotent.
func (a *Adapter) Apply(ctx context.Context, plan *Plan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}

	if a.client == nil {
		return fmt.Errorf("committer: spanner client is nil")
	}

	_, err := a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		for _, g := range plan.guards {
			if err := g(ctx, tx); err != nil {
				return err
			}
		}
		for _, stmt := range plan.statements {
			if _, err := tx.Update(ctx, stmt); err != nil {
				return err
			}
		}
		if len(plan.mutations) == 0 {
			return nil
		}
		return tx.BufferWrite(plan.mutations)
	})
	return err
}
