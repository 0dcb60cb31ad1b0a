// internal/service/publish/scheduler.go

package publish

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"autopress/internal/config"
	"autopress/internal/domain/post"
)

// KeywordRefresher invalidates the ranked keyword pool so the next rank
// call rebuilds it
type KeywordRefresher interface {
	Refresh()
}

// CounterResetter zeroes the durable daily publication counter
type CounterResetter interface {
	ResetDailyCount(ctx context.Context) error
}

// SchedulerConfig contains configuration for the scheduler
type SchedulerConfig struct {
	PublishTimes    []string
	RefreshInterval time.Duration
	Timezone        string
}

// Scheduler drives the pipeline with a fixed set of recurring jobs:
// one publication firing per configured time of day, a periodic keyword
// refresh and a midnight counter reset. Errors within one firing are
// contained to that firing and never prevent future ones.
type Scheduler struct {
	pipeline  *Pipeline
	refresher KeywordRefresher
	resetter  CounterResetter
	config    SchedulerConfig
	log       *logrus.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	started bool
}

// NewScheduler creates a new scheduler in the configured timezone
func NewScheduler(
	pipeline *Pipeline,
	refresher KeywordRefresher,
	resetter CounterResetter,
	cfg SchedulerConfig,
	log *logrus.Logger,
) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("error loading timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 2 * time.Hour
	}

	s := &Scheduler{
		pipeline:  pipeline,
		refresher: refresher,
		resetter:  resetter,
		config:    cfg,
		log:       log,
		cron:      cron.New(cron.WithLocation(location)),
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	for i, publishTime := range s.config.PublishTimes {
		hour, minute, err := config.ParseClock(publishTime)
		if err != nil {
			return err
		}

		slot := slotForIndex(i, len(s.config.PublishTimes), hour)
		spec := fmt.Sprintf("%d %d * * *", minute, hour)

		if _, err := s.cron.AddFunc(spec, func() { s.runPublish(slot) }); err != nil {
			return fmt.Errorf("error adding publish job %q: %w", publishTime, err)
		}
	}

	refreshSpec := fmt.Sprintf("@every %s", s.config.RefreshInterval)
	if _, err := s.cron.AddFunc(refreshSpec, s.runRefresh); err != nil {
		return fmt.Errorf("error adding refresh job: %w", err)
	}

	if _, err := s.cron.AddFunc("0 0 * * *", s.runReset); err != nil {
		return fmt.Errorf("error adding midnight reset job: %w", err)
	}

	return nil
}

// Start begins the recurring jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.cron.Start()
		s.started = true
		s.log.WithFields(logrus.Fields{
			"publish_times": s.config.PublishTimes,
			"refresh_every": s.config.RefreshInterval.String(),
		}).Info("Scheduler started")
	}
}

// Stop halts the recurring jobs, waiting for a running job to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runPublish(slot post.TimeSlot) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.pipeline.RunScheduled(ctx, slot); err != nil {
		// Contained to this cycle; the next firing is the retry
		s.log.WithFields(logrus.Fields{
			"slot":  slot,
			"error": err,
		}).Error("Scheduled publication failed")
	}
}

func (s *Scheduler) runRefresh() {
	s.refresher.Refresh()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The refresh job doubles as the opportunistic publication check:
	// a fresh pool is exactly when a high-confidence signal shows up
	if err := s.pipeline.RunOpportunistic(ctx); err != nil {
		s.log.WithError(err).Error("Opportunistic publication failed")
	}
}

func (s *Scheduler) runReset() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.resetter.ResetDailyCount(ctx); err != nil {
		s.log.WithError(err).Error("Daily counter reset failed")
	} else {
		s.log.Info("Daily publication counter reset")
	}
}

// slotForIndex maps scheduled publication times to slots: the first
// firing of the day is the market open, the last is the close, anything
// between is midday. A single configured time falls back to the
// wall-clock inference.
func slotForIndex(index, total, hour int) post.TimeSlot {
	switch {
	case total == 1:
		return post.SlotForHour(hour)
	case index == 0:
		return post.SlotMarketOpen
	case index == total-1:
		return post.SlotMarketClose
	default:
		return post.SlotMidday
	}
}
