// internal/service/publish/gate.go

package publish

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// DailyCounter re-reads the durable daily publication count. No
// in-memory counter is trusted as the source of truth, so a process
// restart mid-day cannot reset the quota.
type DailyCounter interface {
	PostsPublishedToday(ctx context.Context) (int, error)
}

// GateConfig contains configuration for the publication gate
type GateConfig struct {
	MaxPostsPerDay         int
	OpportunisticThreshold float64
}

// Gate enforces the rolling daily publication quota
type Gate struct {
	counter DailyCounter
	config  GateConfig
	rand    *rand.Rand
	log     *logrus.Logger
}

// NewGate creates a new publication gate
func NewGate(counter DailyCounter, config GateConfig, rng *rand.Rand, log *logrus.Logger) *Gate {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if config.OpportunisticThreshold <= 0 {
		config.OpportunisticThreshold = 0.8
	}

	return &Gate{
		counter: counter,
		config:  config,
		rand:    rng,
		log:     log,
	}
}

// CanPublish reports whether another post may be published today. Hitting
// the quota is a normal outcome, not an error.
func (g *Gate) CanPublish(ctx context.Context) (bool, error) {
	count, err := g.counter.PostsPublishedToday(ctx)
	if err != nil {
		return false, err
	}

	if count >= g.config.MaxPostsPerDay {
		g.log.WithFields(logrus.Fields{
			"published": count,
			"max":       g.config.MaxPostsPerDay,
		}).Info("Daily publication quota reached")
		return false, nil
	}
	return true, nil
}

// Opportunistic decides whether a high-confidence signal justifies an
// extra publication. The coin flip avoids bursty over-publication when
// many high-score signals appear at once.
func (g *Gate) Opportunistic(ctx context.Context, topScore float64) (bool, error) {
	if topScore <= g.config.OpportunisticThreshold {
		return false, nil
	}

	ok, err := g.CanPublish(ctx)
	if err != nil || !ok {
		return false, err
	}

	return g.rand.Float64() < 0.5, nil
}
