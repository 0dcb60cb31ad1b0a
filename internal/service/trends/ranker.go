// internal/service/trends/ranker.go

package trends

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"autopress/internal/domain/signal"
)

const maxRankedKeywords = 30

// KeywordStore defines the durable keyword registry used by the ranker
type KeywordStore interface {
	// UpsertKeyword creates or updates a keyword record with
	// create-or-update-max-score semantics
	UpsertKeyword(ctx context.Context, keyword, source string, score float64) error
}

// RankerConfig contains configuration for the ranker
type RankerConfig struct {
	CacheTTL time.Duration
}

// Ranker merges raw signals into a deduplicated, normalized keyword pool.
// The pool is cached with a TTL; a cache hit short-circuits aggregation
// entirely, and an aggregation failure falls back to the last good pool.
type Ranker struct {
	aggregator *Aggregator
	store      KeywordStore
	config     RankerConfig
	log        *logrus.Logger

	mu        sync.Mutex
	cached    []signal.RankedKeyword
	cachedAt  time.Time
	topSignal float64
	now       func() time.Time
}

// NewRanker creates a new ranker
func NewRanker(aggregator *Aggregator, store KeywordStore, config RankerConfig, log *logrus.Logger) *Ranker {
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Hour
	}

	return &Ranker{
		aggregator: aggregator,
		store:      store,
		config:     config,
		log:        log,
		now:        time.Now,
	}
}

// Rank returns the current ranked keyword pool, refreshing it from the
// sources when the cached pool has expired
func (r *Ranker) Rank(ctx context.Context) ([]signal.RankedKeyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && r.now().Sub(r.cachedAt) < r.config.CacheTTL {
		return copyRanked(r.cached), nil
	}

	signals := r.aggregator.FetchAll(ctx)
	if len(signals) == 0 {
		// Fail-soft: keep downstream consumers functional on the last
		// good pool rather than handing them an empty list
		if r.cached != nil {
			r.log.Warn("Trend aggregation produced no signals, serving stale ranking")
			return copyRanked(r.cached), nil
		}
		return []signal.RankedKeyword{}, nil
	}

	ranked := RankSignals(signals)

	r.topSignal = 0
	for _, sig := range signals {
		if sig.Score > r.topSignal {
			r.topSignal = sig.Score
		}
	}

	for _, kw := range ranked {
		source := ""
		if len(kw.Sources) > 0 {
			source = kw.Sources[0]
		}
		if err := r.store.UpsertKeyword(ctx, kw.Keyword, source, kw.Score); err != nil {
			r.log.WithFields(logrus.Fields{
				"keyword": kw.Keyword,
				"error":   err,
			}).Warn("Keyword upsert failed")
		}
	}

	r.cached = ranked
	r.cachedAt = r.now()

	r.log.WithField("keywords", len(ranked)).Info("Keyword pool refreshed")
	return copyRanked(ranked), nil
}

// TopSignalScore returns the strongest raw signal score observed in the
// last successful refresh, before normalization. Used by the
// opportunistic publication path to judge confidence.
func (r *Ranker) TopSignalScore() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.topSignal
}

// Refresh forces a rebuild of the pool on the next Rank call
func (r *Ranker) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cachedAt = time.Time{}
}

// RankSignals is the pure ranking algorithm: group signals by lowercased
// keyword, take the max score per group, count mentions, apply the
// source-diversity boost, keep the top entries and normalize scores so
// the best entry is exactly 1.0. Deterministic given identical input.
func RankSignals(signals []signal.Signal) []signal.RankedKeyword {
	type group struct {
		keyword  string
		score    float64
		sources  map[string]struct{}
		mentions int
		kind     signal.Type
	}

	groups := make(map[string]*group)
	var order []string

	for _, sig := range signals {
		key := strings.ToLower(sig.Keyword)
		g, exists := groups[key]
		if !exists {
			g = &group{
				keyword: sig.Keyword,
				sources: make(map[string]struct{}),
				kind:    sig.Type,
			}
			groups[key] = g
			order = append(order, key)
		}
		if sig.Score > g.score {
			g.score = sig.Score
		}
		if sig.Source != "" {
			g.sources[sig.Source] = struct{}{}
		}
		g.mentions++
	}

	ranked := make([]signal.RankedKeyword, 0, len(groups))
	for _, key := range order {
		g := groups[key]

		sources := make([]string, 0, len(g.sources))
		for name := range g.sources {
			sources = append(sources, name)
		}
		sort.Strings(sources)

		ranked = append(ranked, signal.RankedKeyword{
			Keyword:  g.keyword,
			Score:    g.score * (1 + float64(g.mentions)*0.1),
			Sources:  sources,
			Mentions: g.mentions,
			Type:     g.kind,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > maxRankedKeywords {
		ranked = ranked[:maxRankedKeywords]
	}

	if len(ranked) > 0 && ranked[0].Score > 0 {
		max := ranked[0].Score
		for i := range ranked {
			ranked[i].Score /= max
		}
	}

	return ranked
}

func copyRanked(in []signal.RankedKeyword) []signal.RankedKeyword {
	out := make([]signal.RankedKeyword, len(in))
	copy(out, in)
	return out
}
