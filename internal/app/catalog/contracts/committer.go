package contracts

import (
	"context"

	commitplan "github.com/murkotick/catalog-service/internal/pkg/committer"
)

// Committer applies a commit plan atomically. The Spanner store depends on
// this instead of the concrete adapter.
type Committer interface {
	Apply(ctx context.Context, plan *commitplan.Plan) error
}
