package publish

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopress/internal/adapter/storage"
	"autopress/internal/domain/post"
	"autopress/internal/domain/signal"
	"autopress/internal/service/trends"
)

type stubRanker struct {
	ranked []signal.RankedKeyword
	err    error
	top    float64
}

func (s *stubRanker) Rank(ctx context.Context) ([]signal.RankedKeyword, error) {
	return s.ranked, s.err
}

func (s *stubRanker) TopSignalScore() float64 { return s.top }

type fakeRegistry struct {
	postsToday int
	countErr   error
	recent     []post.Post
	recorded   []post.Post
	usage      [][]string
}

func (f *fakeRegistry) PostsPublishedToday(ctx context.Context) (int, error) {
	return f.postsToday, f.countErr
}

func (f *fakeRegistry) IncrementUsage(ctx context.Context, keywords []string) error {
	f.usage = append(f.usage, keywords)
	return nil
}

func (f *fakeRegistry) RecordPost(ctx context.Context, p post.Post) error {
	f.recorded = append(f.recorded, p)
	return nil
}

func (f *fakeRegistry) RecentPosts(ctx context.Context, n int) ([]post.Post, error) {
	if len(f.recent) > n {
		return f.recent[:n], nil
	}
	return f.recent, nil
}

type fakeWriter struct {
	commits []post.Post
	err     error
}

func (f *fakeWriter) Commit(ctx context.Context, p post.Post) error {
	if f.err != nil {
		return f.err
	}
	f.commits = append(f.commits, p)
	return nil
}

func newTestPipeline(ranker signal.Ranker, registry *fakeRegistry, writer ContentWriter, seed int64) *Pipeline {
	log := testLogger()
	gate := NewGate(registry, GateConfig{MaxPostsPerDay: 3, OpportunisticThreshold: 0.8}, rand.New(rand.NewSource(seed)), log)
	assembler := NewAssembler(NewCatalog(), AssemblerConfig{Author: "Market Desk"}, rand.New(rand.NewSource(seed)), log)
	return NewPipeline(ranker, gate, assembler, registry, writer, nil, nil, PipelineConfig{}, log)
}

func TestPipelinePublishesToContentStore(t *testing.T) {
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "posts.json")
	store := storage.NewContentStore(contentPath, filepath.Join(dir, "posts.json.bak"), testLogger())

	// Case variants of the same keyword collapse into one entry keeping
	// the stronger score
	ranked := trends.RankSignals([]signal.Signal{
		{Keyword: "BTC", Source: "reddit", Score: 0.9, Type: signal.TypeCrypto},
		{Keyword: "btc", Source: "news", Score: 0.95, Type: signal.TypeCrypto},
	})
	require.Len(t, ranked, 1)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
	assert.Equal(t, 2, ranked[0].Mentions)
	assert.Len(t, ranked[0].Sources, 2)

	registry := &fakeRegistry{}
	pipeline := newTestPipeline(&stubRanker{ranked: ranked}, registry, store, 11)

	err := pipeline.RunScheduled(context.Background(), post.SlotMidday)
	require.NoError(t, err)

	require.Len(t, registry.recorded, 1)
	published := registry.recorded[0]
	assert.Regexp(t, slugShape, published.Slug)

	require.Len(t, registry.usage, 1)
	assert.Equal(t, published.KeywordsUsed, registry.usage[0])

	stored, err := store.Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, published.Slug, stored[0].Slug)

	// The file on disk is valid JSON containing the slug
	data, err := os.ReadFile(contentPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), published.Slug)
}

func TestPipelineQuotaExhaustedIsNoOp(t *testing.T) {
	registry := &fakeRegistry{postsToday: 3}
	writer := &fakeWriter{}
	pipeline := newTestPipeline(&stubRanker{}, registry, writer, 1)

	err := pipeline.RunScheduled(context.Background(), post.SlotMarketOpen)
	require.NoError(t, err)

	assert.Empty(t, writer.commits)
	assert.Empty(t, registry.recorded)
}

func TestPipelineWriterFailureIsContained(t *testing.T) {
	registry := &fakeRegistry{}
	writer := &fakeWriter{err: errors.New("disk full")}
	pipeline := newTestPipeline(&stubRanker{}, registry, writer, 1)

	err := pipeline.RunScheduled(context.Background(), post.SlotMidday)
	assert.Error(t, err)

	// Nothing is recorded for a post that never landed
	assert.Empty(t, registry.recorded)
	assert.Empty(t, registry.usage)
}

func TestPipelineRankerFailurePropagates(t *testing.T) {
	registry := &fakeRegistry{}
	pipeline := newTestPipeline(&stubRanker{err: errors.New("all sources down")}, registry, &fakeWriter{}, 1)

	err := pipeline.RunScheduled(context.Background(), post.SlotMidday)
	assert.Error(t, err)
}

func TestPipelineManualInfersSlotFromClock(t *testing.T) {
	registry := &fakeRegistry{}
	writer := &fakeWriter{}
	pipeline := newTestPipeline(&stubRanker{ranked: []signal.RankedKeyword{{Keyword: "NVDA", Score: 1.0}}}, registry, writer, 5)
	pipeline.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	}

	err := pipeline.RunManual(context.Background())
	require.NoError(t, err)
	require.Len(t, writer.commits, 1)

	// A 10:00 firing lands in the market-open slot
	categories := CategoriesForSlot(post.SlotMarketOpen)
	assert.Contains(t, categories, writer.commits[0].Category)
}

func TestPipelineOpportunisticBelowThreshold(t *testing.T) {
	registry := &fakeRegistry{}
	writer := &fakeWriter{}
	ranker := &stubRanker{
		ranked: []signal.RankedKeyword{{Keyword: "NVDA", Score: 1.0}},
		top:    0.5,
	}
	pipeline := newTestPipeline(ranker, registry, writer, 1)

	err := pipeline.RunOpportunistic(context.Background())
	require.NoError(t, err)
	assert.Empty(t, writer.commits)
}

func TestPipelineOpportunisticEmptyPoolIsNoOp(t *testing.T) {
	registry := &fakeRegistry{}
	writer := &fakeWriter{}
	pipeline := newTestPipeline(&stubRanker{top: 0.95}, registry, writer, 1)

	err := pipeline.RunOpportunistic(context.Background())
	require.NoError(t, err)
	assert.Empty(t, writer.commits)
}

func TestPipelineOpportunisticCoinFlip(t *testing.T) {
	published := 0
	skipped := 0

	for seed := int64(0); seed < 40; seed++ {
		registry := &fakeRegistry{}
		writer := &fakeWriter{}
		ranker := &stubRanker{
			ranked: []signal.RankedKeyword{{Keyword: "NVDA", Score: 1.0}},
			top:    0.95,
		}
		pipeline := newTestPipeline(ranker, registry, writer, seed)

		err := pipeline.RunOpportunistic(context.Background())
		require.NoError(t, err)

		if len(writer.commits) == 1 {
			published++
		} else {
			skipped++
		}
	}

	// The coin flip must let some firings through and hold others back
	assert.Greater(t, published, 0)
	assert.Greater(t, skipped, 0)
}
