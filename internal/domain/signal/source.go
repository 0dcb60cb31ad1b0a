// internal/domain/signal/source.go

package signal

import (
	"context"
)

// Source defines the interface for a trend signal source
type Source interface {
	// Name returns the source name
	Name() string

	// Fetch returns the current batch of signals from this source
	Fetch(ctx context.Context) ([]Signal, error)
}

// Ranker defines the interface for building the ranked keyword pool
type Ranker interface {
	// Rank returns the current ranked keyword pool, refreshing it from
	// the underlying sources when the cached pool has expired
	Rank(ctx context.Context) ([]RankedKeyword, error)
}
