package publish

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopress/internal/domain/post"
)

type stubRefresher struct{ calls int }

func (s *stubRefresher) Refresh() { s.calls++ }

type stubResetter struct{ calls int }

func (s *stubResetter) ResetDailyCount(ctx context.Context) error {
	s.calls++
	return nil
}

func newTestScheduler(t *testing.T, cfg SchedulerConfig) (*Scheduler, error) {
	t.Helper()
	pipeline := newTestPipeline(&stubRanker{}, &fakeRegistry{}, &fakeWriter{}, 1)
	return NewScheduler(pipeline, &stubRefresher{}, &stubResetter{}, cfg, testLogger())
}

func TestSlotForIndex(t *testing.T) {
	assert.Equal(t, post.SlotMarketOpen, slotForIndex(0, 3, 9))
	assert.Equal(t, post.SlotMidday, slotForIndex(1, 3, 13))
	assert.Equal(t, post.SlotMarketClose, slotForIndex(2, 3, 17))

	// Two firings a day still bracket the session
	assert.Equal(t, post.SlotMarketOpen, slotForIndex(0, 2, 9))
	assert.Equal(t, post.SlotMarketClose, slotForIndex(1, 2, 17))

	// A single firing falls back to wall-clock inference
	assert.Equal(t, post.SlotMidday, slotForIndex(0, 1, 13))
	assert.Equal(t, post.SlotMarketClose, slotForIndex(0, 1, 20))
}

func TestNewSchedulerRegistersJobs(t *testing.T) {
	s, err := newTestScheduler(t, SchedulerConfig{
		PublishTimes:    []string{"09:30", "13:00", "17:30"},
		RefreshInterval: 2 * time.Hour,
		Timezone:        "America/New_York",
	})
	require.NoError(t, err)
	require.NotNil(t, s)

	s.Start()
	require.NoError(t, s.Stop(context.Background()))
}

func TestNewSchedulerRejectsBadTimezone(t *testing.T) {
	_, err := newTestScheduler(t, SchedulerConfig{
		PublishTimes: []string{"09:30"},
		Timezone:     "Mars/Olympus_Mons",
	})
	assert.Error(t, err)
}

func TestNewSchedulerRejectsBadPublishTime(t *testing.T) {
	_, err := newTestScheduler(t, SchedulerConfig{
		PublishTimes: []string{"25:99"},
		Timezone:     "UTC",
	})
	assert.Error(t, err)
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s, err := newTestScheduler(t, SchedulerConfig{
		PublishTimes: []string{"09:30"},
		Timezone:     "UTC",
	})
	require.NoError(t, err)
	assert.NoError(t, s.Stop(context.Background()))
}
