// internal/service/trends/aggregator.go

package trends

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"autopress/internal/domain/signal"
)

// AggregatorConfig contains configuration for the aggregator
type AggregatorConfig struct {
	SourceTimeout time.Duration
}

// Aggregator fans out to every registered source concurrently and merges
// the resulting signals. A failing source is logged and contributes zero
// signals; it never aborts the others.
type Aggregator struct {
	sources []signal.Source
	config  AggregatorConfig
	log     *logrus.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(sources []signal.Source, config AggregatorConfig, log *logrus.Logger) *Aggregator {
	if config.SourceTimeout <= 0 {
		config.SourceTimeout = 15 * time.Second
	}

	kept := make([]signal.Source, 0, len(sources))
	for _, src := range sources {
		if src != nil {
			kept = append(kept, src)
		}
	}

	return &Aggregator{
		sources: kept,
		config:  config,
		log:     log,
	}
}

// FetchAll collects the current batch of signals from all sources. It
// waits for every source to settle within its per-source timeout.
func (a *Aggregator) FetchAll(ctx context.Context) []signal.Signal {
	var (
		mu     sync.Mutex
		merged []signal.Signal
		wg     sync.WaitGroup
	)

	for _, src := range a.sources {
		wg.Add(1)
		go func(src signal.Source) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.config.SourceTimeout)
			defer cancel()

			signals, err := src.Fetch(fetchCtx)
			if err != nil {
				a.log.WithFields(logrus.Fields{
					"source": src.Name(),
					"error":  err,
				}).Warn("Trend source fetch failed")
				return
			}

			mu.Lock()
			merged = append(merged, signals...)
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	return merged
}
