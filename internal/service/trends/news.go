// internal/service/trends/news.go

package trends

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"autopress/internal/domain/signal"
)

// NewsSource extracts keyword signals from financial news RSS feeds
type NewsSource struct {
	parser *gofeed.Parser
	urls   []string
	now    func() time.Time
}

// NewNewsSource creates a new RSS news source
func NewNewsSource(urls []string) *NewsSource {
	return &NewsSource{
		parser: gofeed.NewParser(),
		urls:   urls,
		now:    time.Now,
	}
}

// Name returns the source name
func (s *NewsSource) Name() string {
	return "news"
}

// Fetch parses each configured feed and extracts keywords from headline
// text, scored by recency
func (s *NewsSource) Fetch(ctx context.Context) ([]signal.Signal, error) {
	var signals []signal.Signal

	for _, url := range s.urls {
		feed, err := s.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			return nil, fmt.Errorf("error parsing feed %s: %w", url, err)
		}

		for _, item := range feed.Items {
			score := s.recencyScore(item.PublishedParsed)
			if score == 0 {
				continue
			}

			for _, sig := range ExtractKeywords(item.Title) {
				sig.Source = s.Name()
				sig.Score = score
				signals = append(signals, sig)
			}
		}
	}

	return signals, nil
}

// recencyScore weights a headline by age: full weight inside two hours,
// decaying to zero past 24 hours. Items without a parsed timestamp get a
// conservative middle score.
func (s *NewsSource) recencyScore(published *time.Time) float64 {
	if published == nil {
		return 0.5
	}

	age := s.now().Sub(*published)
	switch {
	case age < 0:
		return 0.9
	case age <= 2*time.Hour:
		return 0.9
	case age <= 6*time.Hour:
		return 0.7
	case age <= 12*time.Hour:
		return 0.5
	case age <= 24*time.Hour:
		return 0.3
	default:
		return 0
	}
}
