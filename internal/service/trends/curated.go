// internal/service/trends/curated.go

package trends

import (
	"context"

	"autopress/internal/domain/signal"
)

// CuratedSource emits a fixed list of evergreen market keywords with
// static heuristic scores. It keeps the keyword pool from running dry
// when every network source fails or comes back thin.
type CuratedSource struct {
	entries []signal.Signal
}

// NewCuratedSource creates the curated source with its built-in list
func NewCuratedSource() *CuratedSource {
	return &CuratedSource{
		entries: []signal.Signal{
			{Keyword: "S&P 500", Score: 0.55, Type: signal.TypeKeyword},
			{Keyword: "interest rates", Score: 0.5, Type: signal.TypeTopic},
			{Keyword: "inflation", Score: 0.5, Type: signal.TypeTopic},
			{Keyword: "BTC", Score: 0.45, Type: signal.TypeCrypto},
			{Keyword: "ETH", Score: 0.4, Type: signal.TypeCrypto},
			{Keyword: "AI stocks", Score: 0.45, Type: signal.TypeTopic},
			{Keyword: "dividends", Score: 0.35, Type: signal.TypeTopic},
			{Keyword: "ETF investing", Score: 0.35, Type: signal.TypeTopic},
			{Keyword: "earnings season", Score: 0.4, Type: signal.TypeTopic},
			{Keyword: "treasury yields", Score: 0.35, Type: signal.TypeTopic},
		},
	}
}

// Name returns the source name
func (s *CuratedSource) Name() string {
	return "curated"
}

// Fetch returns the static entries
func (s *CuratedSource) Fetch(ctx context.Context) ([]signal.Signal, error) {
	out := make([]signal.Signal, len(s.entries))
	copy(out, s.entries)
	for i := range out {
		out[i].Source = s.Name()
	}
	return out, nil
}
