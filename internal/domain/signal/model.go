// internal/domain/signal/model.go

package signal

import (
	"time"
)

// Type classifies what kind of keyword a signal refers to
type Type string

const (
	TypeTicker  Type = "ticker"
	TypeTopic   Type = "topic"
	TypeKeyword Type = "keyword"
	TypeCrypto  Type = "crypto"
)

// Signal is a single scored observation of a keyword's momentary
// popularity from one source. Signals are ephemeral and never persisted
// individually.
type Signal struct {
	Keyword string
	Source  string
	Score   float64 // bounded to [0,1]
	Type    Type
}

// RankedKeyword is a deduplicated entry in the ranked keyword pool.
// Scores within a ranked batch are normalized so the top entry is 1.0.
type RankedKeyword struct {
	Keyword  string
	Score    float64
	Sources  []string
	Mentions int
	Type     Type
}

// Record is the durable registry entry for a keyword. Records are
// created on first sighting and never deleted; TrendScore only moves up.
type Record struct {
	Keyword      string    `json:"keyword"`
	Source       string    `json:"source"`
	TrendScore   float64   `json:"trendScore"`
	UsageCount   int       `json:"usageCount"`
	LastUsed     time.Time `json:"lastUsed,omitempty"`
	DiscoveredAt time.Time `json:"discoveredAt"`
}
