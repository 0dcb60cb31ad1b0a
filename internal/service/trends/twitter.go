// internal/service/trends/twitter.go

package trends

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"autopress/internal/domain/signal"
)

// bearerAuthorizer adds the bearer token to outgoing API requests
type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// TwitterSource measures tweet volume for a set of tracked symbol queries
// and converts it into keyword signals
type TwitterSource struct {
	client  *twitter.Client
	queries []string
}

// NewTwitterSource creates a new Twitter source. Returns nil when no
// bearer token is configured; the aggregator skips nil sources.
func NewTwitterSource(bearerToken string, queries []string) *TwitterSource {
	if bearerToken == "" {
		return nil
	}

	return &TwitterSource{
		client: &twitter.Client{
			Authorizer: bearerAuthorizer{token: bearerToken},
			Client: &http.Client{
				Timeout: time.Second * 10,
			},
			Host: "https://api.twitter.com",
		},
		queries: queries,
	}
}

// Name returns the source name
func (s *TwitterSource) Name() string {
	return "twitter"
}

// Fetch returns one signal per tracked query, scored by recent tweet
// volume
func (s *TwitterSource) Fetch(ctx context.Context) ([]signal.Signal, error) {
	var signals []signal.Signal

	for _, query := range s.queries {
		counts, err := s.client.TweetRecentCounts(ctx, query, twitter.TweetRecentCountsOpts{
			Granularity: "hour",
		})
		if err != nil {
			return nil, fmt.Errorf("error counting tweets for %q: %w", query, err)
		}

		total := 0
		for _, bucket := range counts.TweetCounts {
			total += bucket.TweetCount
		}

		keyword := strings.ToUpper(strings.TrimPrefix(query, "$"))
		kind := signal.TypeTicker
		if _, ok := cryptoVocabulary[keyword]; ok {
			kind = signal.TypeCrypto
		}

		signals = append(signals, signal.Signal{
			Keyword: keyword,
			Source:  s.Name(),
			Score:   volumeScore(total),
			Type:    kind,
		})
	}

	return signals, nil
}

// volumeScore maps a 24h tweet count into [0,1] on a log scale, with
// 100k tweets saturating the score
func volumeScore(count int) float64 {
	if count <= 0 {
		return 0
	}

	score := math.Log10(float64(count)) / 5.0
	if score > 1 {
		score = 1
	}
	return score
}
