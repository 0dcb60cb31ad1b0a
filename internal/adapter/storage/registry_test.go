package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopress/internal/domain/post"
)

func newTestRegistry(t *testing.T) *RegistryStore {
	t.Helper()
	return NewRegistryStore(filepath.Join(t.TempDir(), "registry.json"))
}

func samplePost(slug string) post.Post {
	return post.Post{
		ID:          slug + "-id",
		Title:       "Sample " + slug,
		Slug:        slug,
		Content:     "body",
		Category:    "market-analysis",
		Tags:        []string{"investing"},
		PublishedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestUpsertKeywordTrendScoreIsMonotonic(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	for _, score := range []float64{0.3, 0.9, 0.5} {
		require.NoError(t, s.UpsertKeyword(ctx, "NVDA", "reddit", score))
	}

	record, err := s.Keyword(ctx, "nvda")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 0.9, record.TrendScore)
	assert.False(t, record.DiscoveredAt.IsZero())
}

func TestUpsertKeywordKeepsDiscoveryTime(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return first }
	require.NoError(t, s.UpsertKeyword(ctx, "BTC", "news", 0.4))

	s.now = func() time.Time { return first.Add(24 * time.Hour) }
	require.NoError(t, s.UpsertKeyword(ctx, "BTC", "reddit", 0.7))

	record, err := s.Keyword(ctx, "BTC")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, first, record.DiscoveredAt.UTC())
	assert.Equal(t, "reddit", record.Source)
}

func TestIncrementUsageDeduplicatesWithinCall(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertKeyword(ctx, "NVDA", "reddit", 0.8))
	require.NoError(t, s.IncrementUsage(ctx, []string{"NVDA", "nvda", "inflation"}))

	record, err := s.Keyword(ctx, "NVDA")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.UsageCount)

	// Keywords never upserted still get a usage record
	record, err = s.Keyword(ctx, "inflation")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, record.UsageCount)
}

func TestPostsPublishedTodayRollsOverAtMidnight(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return day1 }

	require.NoError(t, s.RecordPost(ctx, samplePost("one")))
	require.NoError(t, s.RecordPost(ctx, samplePost("two")))

	count, err := s.PostsPublishedToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Next calendar day: the durable counter reads as zero without any
	// reset having run
	s.now = func() time.Time { return day1.Add(12 * time.Hour) }
	count, err = s.PostsPublishedToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecordPostAdvancesCounters(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return day1 }
	require.NoError(t, s.RecordPost(ctx, samplePost("one")))

	// A publication on a later day restarts the daily counter but keeps
	// the running total
	s.now = func() time.Time { return day1.Add(24 * time.Hour) }
	require.NoError(t, s.RecordPost(ctx, samplePost("two")))

	total, today, _, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, today)
}

func TestRecentPostsNewestFirst(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	for _, slug := range []string{"a", "b", "c"} {
		require.NoError(t, s.RecordPost(ctx, samplePost(slug)))
	}

	recent, err := s.RecentPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Slug)
	assert.Equal(t, "b", recent[1].Slug)

	all, err := s.RecentPosts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestResetDailyCount(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, s.RecordPost(ctx, samplePost("one")))

	count, err := s.PostsPublishedToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.ResetDailyCount(ctx))

	count, err = s.PostsPublishedToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStatsCountsKeywords(t *testing.T) {
	s := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertKeyword(ctx, "NVDA", "reddit", 0.8))
	require.NoError(t, s.UpsertKeyword(ctx, "BTC", "news", 0.6))
	require.NoError(t, s.UpsertKeyword(ctx, "nvda", "twitter", 0.5))

	_, _, keywords, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, keywords)
}
