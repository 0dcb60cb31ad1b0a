// internal/domain/post/model.go

package post

import (
	"time"
)

// Post represents a fully assembled article ready for persistence.
// A post is immutable after creation except for the view counter, which
// is owned by an external reporting collaborator.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Excerpt      string    `json:"excerpt"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Author       string    `json:"author"`
	Featured     bool      `json:"featured"`
	Image        string    `json:"image"`
	ReadTime     int       `json:"readTime"`
	PublishedAt  time.Time `json:"publishedAt"`
	KeywordsUsed []string  `json:"keywordsUsed"`
	ViralScore   float64   `json:"viralScore"`
	TemplateID   string    `json:"templateId"`
	Views        int       `json:"views"`
}

// Template is a static catalog entry: a parametrized content skeleton
// tagged by category. Templates are immutable at runtime.
type Template struct {
	ID             string
	Category       string
	TitlePattern   string
	ExcerptPattern string
	Intro          string
	Sections       []string
	Conclusion     string
}

// TimeSlot is a coarse part-of-day context used to bias template selection
type TimeSlot string

const (
	SlotMarketOpen  TimeSlot = "market-open"
	SlotMidday      TimeSlot = "midday"
	SlotMarketClose TimeSlot = "market-close"
)

// SlotForHour infers the publication time slot from a wall-clock hour.
// Used by the manual trigger, which is not bound to a scheduled firing.
func SlotForHour(hour int) TimeSlot {
	switch {
	case hour < 11:
		return SlotMarketOpen
	case hour < 16:
		return SlotMidday
	default:
		return SlotMarketClose
	}
}
