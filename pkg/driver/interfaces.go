package driver

import (
	"context"

	"github.com/soundprediction/verity/pkg/types"
)

// QueryExecutor runs a read query and returns flattened records.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]types.RawRecord, error)
}

// HealthChecker reports whether the store can be reached.
type HealthChecker interface {
	VerifyConnectivity(ctx context.Context) error
}

// GraphStore is the full capability set a search client needs from a
// backing database.
type GraphStore interface {
	QueryExecutor
	HealthChecker
	Close(ctx context.Context) error
}
