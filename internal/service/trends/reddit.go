// internal/service/trends/reddit.go

package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"autopress/internal/domain/signal"
)

// RedditSource pulls top posts from a set of subreddits and extracts
// scored keyword signals from their titles
type RedditSource struct {
	httpClient *http.Client
	baseURL    string
	subreddits []string
	userAgent  string
}

// RedditPost represents a post from Reddit
type RedditPost struct {
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Subreddit   string  `json:"subreddit"`
	Created     float64 `json:"created_utc"`
	SelfText    string  `json:"selftext"`
}

// redditResponse represents the structure of the Reddit API response
type redditResponse struct {
	Data struct {
		Children []struct {
			Data RedditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// NewRedditSource creates a new Reddit source
func NewRedditSource(subreddits []string) *RedditSource {
	return &RedditSource{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		baseURL:    "https://www.reddit.com",
		subreddits: subreddits,
		userAgent:  "autopress/1.0",
	}
}

// Name returns the source name
func (s *RedditSource) Name() string {
	return "reddit"
}

// Fetch returns keyword signals extracted from today's top posts across
// the configured subreddits
func (s *RedditSource) Fetch(ctx context.Context) ([]signal.Signal, error) {
	var signals []signal.Signal

	for _, subreddit := range s.subreddits {
		posts, err := s.topPosts(ctx, subreddit, 25)
		if err != nil {
			return nil, fmt.Errorf("error fetching r/%s: %w", subreddit, err)
		}

		for _, p := range posts {
			score := Virality(p.Score, p.NumComments)
			for _, sig := range ExtractKeywords(p.Title) {
				sig.Source = s.Name()
				sig.Score = score
				signals = append(signals, sig)
			}
		}
	}

	return signals, nil
}

// topPosts fetches the top posts of the day from a subreddit
func (s *RedditSource) topPosts(ctx context.Context, subreddit string, limit int) ([]RedditPost, error) {
	url := fmt.Sprintf("%s/r/%s/top.json?limit=%d&t=day", s.baseURL, subreddit, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set a User-Agent header to avoid rate limiting
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Reddit API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Reddit API returned status code %d", resp.StatusCode)
	}

	var redditResp redditResponse
	if err := json.NewDecoder(resp.Body).Decode(&redditResp); err != nil {
		return nil, fmt.Errorf("failed to decode Reddit API response: %w", err)
	}

	posts := make([]RedditPost, 0, len(redditResp.Data.Children))
	for _, child := range redditResp.Data.Children {
		posts = append(posts, child.Data)
	}

	return posts, nil
}

// Virality converts raw upvote and comment counts into a score in [0,1].
// Comments weigh double since they indicate active discussion, and the
// logarithm keeps a handful of megathreads from drowning everything else.
func Virality(upvotes, comments int) float64 {
	if upvotes < 0 {
		upvotes = 0
	}
	if comments < 0 {
		comments = 0
	}

	raw := math.Log10(1 + float64(upvotes) + 2*float64(comments))
	score := raw / 5.0
	if score > 1 {
		score = 1
	}
	return score
}
