// internal/service/publish/pipeline.go

package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"autopress/internal/adapter/storage"
	"autopress/internal/domain/post"
	"autopress/internal/domain/signal"
)

// ContentWriter performs the durable content-store mutation
type ContentWriter interface {
	Commit(ctx context.Context, p post.Post) error
}

// Registry is the durable keyword/post registry used by the pipeline
type Registry interface {
	DailyCounter
	IncrementUsage(ctx context.Context, keywords []string) error
	RecordPost(ctx context.Context, p post.Post) error
	RecentPosts(ctx context.Context, n int) ([]post.Post, error)
}

// PipelineConfig contains configuration for the publication pipeline
type PipelineConfig struct {
	EventsTopic      string
	LegacyExportPath string
}

// Pipeline orchestrates one publication cycle: quota check, keyword
// ranking, assembly, usage accounting and the durable commit. A single
// mutex guards the whole sequence so a scheduled and a manual firing
// cannot interleave.
type Pipeline struct {
	ranker    signal.Ranker
	gate      *Gate
	assembler *Assembler
	registry  Registry
	writer    ContentWriter
	exporter  *storage.ContentStore
	eventBus  *nats.Conn
	config    PipelineConfig
	log       *logrus.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewPipeline creates a new publication pipeline. The event bus may be
// nil, in which case events are skipped.
func NewPipeline(
	ranker signal.Ranker,
	gate *Gate,
	assembler *Assembler,
	registry Registry,
	writer ContentWriter,
	exporter *storage.ContentStore,
	eventBus *nats.Conn,
	config PipelineConfig,
	log *logrus.Logger,
) *Pipeline {
	if config.EventsTopic == "" {
		config.EventsTopic = "autopress"
	}

	return &Pipeline{
		ranker:    ranker,
		gate:      gate,
		assembler: assembler,
		registry:  registry,
		writer:    writer,
		exporter:  exporter,
		eventBus:  eventBus,
		config:    config,
		log:       log,
		now:       time.Now,
	}
}

// RunScheduled executes one publication cycle for a scheduled time slot
func (p *Pipeline) RunScheduled(ctx context.Context, slot post.TimeSlot) error {
	return p.run(ctx, slot, "scheduled")
}

// RunManual executes one publication cycle, inferring the time slot from
// the wall-clock hour at invocation time
func (p *Pipeline) RunManual(ctx context.Context) error {
	slot := post.SlotForHour(p.now().Hour())
	return p.run(ctx, slot, "manual")
}

// RunOpportunistic publishes an extra post when the top-ranked keyword
// clears the high-confidence threshold and the gate's coin flip allows it
func (p *Pipeline) RunOpportunistic(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ranked, err := p.ranker.Rank(ctx)
	if err != nil {
		return fmt.Errorf("error ranking keywords: %w", err)
	}
	if len(ranked) == 0 {
		return nil
	}

	// The ranked pool is normalized to 1.0, so confidence is judged on
	// the strongest raw signal score when the ranker can provide it
	topScore := ranked[0].Score
	if scorer, ok := p.ranker.(interface{ TopSignalScore() float64 }); ok {
		topScore = scorer.TopSignalScore()
	}

	ok, err := p.gate.Opportunistic(ctx, topScore)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	slot := post.SlotForHour(p.now().Hour())
	return p.publishLocked(ctx, slot, "opportunistic", ranked)
}

// run executes one publication cycle under the publish mutex. Errors are
// contained to the cycle: the caller logs them and the next scheduled
// firing is the de facto retry.
func (p *Pipeline) run(ctx context.Context, slot post.TimeSlot, trigger string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ok, err := p.gate.CanPublish(ctx)
	if err != nil {
		return fmt.Errorf("error checking publication quota: %w", err)
	}
	if !ok {
		// Quota exhaustion is a normal, logged no-op
		return nil
	}

	ranked, err := p.ranker.Rank(ctx)
	if err != nil {
		return fmt.Errorf("error ranking keywords: %w", err)
	}

	return p.publishLocked(ctx, slot, trigger, ranked)
}

// publishLocked assembles and commits one post. Callers must hold p.mu.
func (p *Pipeline) publishLocked(ctx context.Context, slot post.TimeSlot, trigger string, ranked []signal.RankedKeyword) error {
	recent, err := p.registry.RecentPosts(ctx, recentTemplateWindow)
	if err != nil {
		return fmt.Errorf("error loading recent posts: %w", err)
	}

	article, err := p.assembler.Assemble(slot, ranked, recent)
	if err != nil {
		return fmt.Errorf("error assembling post: %w", err)
	}

	if err := p.writer.Commit(ctx, article); err != nil {
		var validation *storage.ValidationError
		if errors.As(err, &validation) {
			p.log.WithError(err).Error("Post failed validation, skipping cycle")
		}
		p.publishEvent("post.failed", map[string]interface{}{
			"slug":    article.Slug,
			"trigger": trigger,
			"error":   err.Error(),
		})
		return err
	}

	// Usage counters bump exactly once per post that consumed a keyword
	if err := p.registry.IncrementUsage(ctx, article.KeywordsUsed); err != nil {
		p.log.WithError(err).Warn("Keyword usage increment failed")
	}

	if err := p.registry.RecordPost(ctx, article); err != nil {
		p.log.WithError(err).Warn("Registry post record failed")
	}

	if p.config.LegacyExportPath != "" && p.exporter != nil {
		if err := p.exporter.ExportLegacy(ctx, p.config.LegacyExportPath); err != nil {
			p.log.WithError(err).Warn("Legacy export failed")
		}
	}

	p.publishEvent("post.published", map[string]interface{}{
		"slug":     article.Slug,
		"title":    article.Title,
		"category": article.Category,
		"trigger":  trigger,
		"slot":     string(slot),
	})

	p.log.WithFields(logrus.Fields{
		"slug":    article.Slug,
		"slot":    slot,
		"trigger": trigger,
	}).Info("Post published")

	return nil
}

// publishEvent publishes a pipeline event to the event bus
func (p *Pipeline) publishEvent(eventType string, payload map[string]interface{}) {
	if p.eventBus == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.log.WithError(err).Warn("Event payload marshaling failed")
		return
	}

	topic := fmt.Sprintf("%s.%s", p.config.EventsTopic, eventType)
	if err := p.eventBus.Publish(topic, data); err != nil {
		p.log.WithFields(logrus.Fields{
			"topic": topic,
			"error": err,
		}).Warn("Event publish failed")
	}
}
