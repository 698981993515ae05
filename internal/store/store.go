// Package store provides the append-only decision log behind the
// comparator. The default backend is in-memory; the SQLite backend exists
// for callers that want to query a finished run with SQL, and it too
// defaults to ":memory:" so nothing outlives the process unless a file
// path is opted into.
package store

import (
	"context"

	"github.com/me/edgesentry/pkg/model"
)

// DecisionStore is the audit trail of admission decisions for one
// comparison run. Append-only and single-writer: the comparator sequences
// policy runs rather than interleaving them.
type DecisionStore interface {
	// AppendDecision records one decision. Decisions are never updated.
	AppendDecision(ctx context.Context, d model.Decision) error

	// ListDecisions returns every decision recorded for a policy, in
	// append order.
	ListDecisions(ctx context.Context, policy string) ([]model.Decision, error)

	// CountDecisions returns the number of decisions recorded for a policy.
	CountDecisions(ctx context.Context, policy string) (int, error)

	// Reset clears the log for a fresh comparison run.
	Reset(ctx context.Context) error

	Close() error
}
