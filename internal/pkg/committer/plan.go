package committer

import (
	"context"

	"cloud.google.com/go/spanner"
)

// Guard runs inside the read-write transaction before anything is written.
// Returning an error aborts the whole plan.
type Guard func(ctx context.Context, tx *spanner.ReadWriteTransaction) error

// Plan collects everything one commit must do: guards, DML statements and
// buffered mutations, applied in that order.
type Plan struct {
	guards     []Guard
	statements []spanner.Statement
	mutations  []*spanner.Mutation
}

func NewPlan() *Plan {
	return &Plan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

func (p *Plan) Add(m *spanner.Mutation) {
	if m == nil {
		return
	}
	p.mutations = append(p.mutations, m)
}

func (p *Plan) AddGuard(g Guard) {
	if g == nil {
		return
	}
	p.guards = append(p.guards, g)
}

// AddStatement queues a DML statement.
func (p *Plan) AddStatement(stmt spanner.Statement) {
	p.statements = append(p.statements, stmt)
}

func (p *Plan) IsEmpty() bool {
	return len(p.mutations) == 0 && len(p.statements) == 0 && len(p.guards) == 0
}

func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}

func (p *Plan) Guards() []Guard {
	return p.guards
}

func (p *Plan) Statements() []spanner.Statement {
	return p.statements
}
