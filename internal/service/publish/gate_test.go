package publish

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	count int
	err   error
}

func (s *stubCounter) PostsPublishedToday(ctx context.Context) (int, error) {
	return s.count, s.err
}

func TestGateAllowsUnderQuota(t *testing.T) {
	gate := NewGate(&stubCounter{count: 2}, GateConfig{MaxPostsPerDay: 3}, rand.New(rand.NewSource(1)), testLogger())

	ok, err := gate.CanPublish(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGateBlocksAtQuota(t *testing.T) {
	gate := NewGate(&stubCounter{count: 3}, GateConfig{MaxPostsPerDay: 3}, rand.New(rand.NewSource(1)), testLogger())

	ok, err := gate.CanPublish(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGateCounterError(t *testing.T) {
	gate := NewGate(&stubCounter{err: errors.New("disk gone")}, GateConfig{MaxPostsPerDay: 3}, rand.New(rand.NewSource(1)), testLogger())

	ok, err := gate.CanPublish(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestOpportunisticBelowThreshold(t *testing.T) {
	gate := NewGate(&stubCounter{count: 0}, GateConfig{MaxPostsPerDay: 3, OpportunisticThreshold: 0.8}, rand.New(rand.NewSource(1)), testLogger())

	ok, err := gate.Opportunistic(context.Background(), 0.5)
	require.NoError(t, err)
	assert.False(t, ok)

	// The threshold itself does not qualify
	ok, err = gate.Opportunistic(context.Background(), 0.8)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpportunisticRespectsQuota(t *testing.T) {
	gate := NewGate(&stubCounter{count: 3}, GateConfig{MaxPostsPerDay: 3, OpportunisticThreshold: 0.8}, rand.New(rand.NewSource(1)), testLogger())

	ok, err := gate.Opportunistic(context.Background(), 0.95)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpportunisticCoinFlip(t *testing.T) {
	gate := NewGate(&stubCounter{count: 0}, GateConfig{MaxPostsPerDay: 3, OpportunisticThreshold: 0.8}, rand.New(rand.NewSource(1)), testLogger())

	allowed := 0
	for i := 0; i < 200; i++ {
		ok, err := gate.Opportunistic(context.Background(), 0.95)
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}

	// A fair coin over 200 trials lands well inside this band
	assert.Greater(t, allowed, 50)
	assert.Less(t, allowed, 150)
}
