// internal/adapter/storage/registry.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"autopress/internal/domain/post"
	"autopress/internal/domain/signal"
)

// registryDocument is the on-disk shape of the registry: a single JSON
// document with three top-level collections, read fully into memory and
// rewritten fully on every mutation.
type registryDocument struct {
	Posts     []post.Post              `json:"posts"`
	Keywords  map[string]signal.Record `json:"keywords"`
	Analytics analytics                `json:"analytics"`
}

// analytics holds the durable publication counters. PostsToday is the
// source of truth for the daily quota and is re-read on every check.
type analytics struct {
	TotalPosts      int       `json:"totalPosts"`
	PostsToday      int       `json:"postsToday"`
	LastPublishDay  string    `json:"lastPublishDay"`
	LastPublishedAt time.Time `json:"lastPublishedAt,omitempty"`
}

// RegistryStore implements the durable keyword/post registry backed by a
// single JSON file
type RegistryStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewRegistryStore creates a new registry store
func NewRegistryStore(path string) *RegistryStore {
	return &RegistryStore{
		path: path,
		now:  time.Now,
	}
}

// UpsertKeyword creates or updates a keyword record. The trend score is
// the running maximum across sightings and never moves down.
func (s *RegistryStore) UpsertKeyword(ctx context.Context, keyword, source string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	key := strings.ToLower(keyword)
	record, exists := doc.Keywords[key]
	if !exists {
		record = signal.Record{
			Keyword:      keyword,
			Source:       source,
			TrendScore:   score,
			DiscoveredAt: s.now(),
		}
	} else if score > record.TrendScore {
		record.TrendScore = score
		record.Source = source
	}
	doc.Keywords[key] = record

	return s.save(doc)
}

// Keyword returns the record for a keyword, or nil if it has never been seen
func (s *RegistryStore) Keyword(ctx context.Context, keyword string) (*signal.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	record, exists := doc.Keywords[strings.ToLower(keyword)]
	if !exists {
		return nil, nil
	}
	return &record, nil
}

// IncrementUsage bumps the usage counter for every keyword consumed by a
// post, exactly once per keyword
func (s *RegistryStore) IncrementUsage(ctx context.Context, keywords []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		key := strings.ToLower(keyword)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		record, exists := doc.Keywords[key]
		if !exists {
			record = signal.Record{
				Keyword:      keyword,
				Source:       "usage",
				DiscoveredAt: s.now(),
			}
		}
		record.UsageCount++
		record.LastUsed = s.now()
		doc.Keywords[key] = record
	}

	return s.save(doc)
}

// PostsPublishedToday returns the number of posts published on the
// current calendar day according to the durable counters
func (s *RegistryStore) PostsPublishedToday(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, err
	}

	if doc.Analytics.LastPublishDay != s.today() {
		return 0, nil
	}
	return doc.Analytics.PostsToday, nil
}

// RecordPost appends a published post to the registry and advances the
// publication counters
func (s *RegistryStore) RecordPost(ctx context.Context, p post.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Posts = append([]post.Post{p}, doc.Posts...)
	doc.Analytics.TotalPosts++

	today := s.today()
	if doc.Analytics.LastPublishDay != today {
		doc.Analytics.PostsToday = 0
		doc.Analytics.LastPublishDay = today
	}
	doc.Analytics.PostsToday++
	doc.Analytics.LastPublishedAt = s.now()

	return s.save(doc)
}

// RecentPosts returns up to n most recently recorded posts, newest first
func (s *RegistryStore) RecentPosts(ctx context.Context, n int) ([]post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	if n > len(doc.Posts) {
		n = len(doc.Posts)
	}
	out := make([]post.Post, n)
	copy(out, doc.Posts[:n])
	return out, nil
}

// ResetDailyCount zeroes the daily publication counter. Fired by the
// midnight job.
func (s *RegistryStore) ResetDailyCount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	doc.Analytics.PostsToday = 0
	doc.Analytics.LastPublishDay = s.today()

	return s.save(doc)
}

// Stats returns aggregate counters for the reporting surface
func (s *RegistryStore) Stats(ctx context.Context) (total int, today int, keywords int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, 0, 0, err
	}

	today = doc.Analytics.PostsToday
	if doc.Analytics.LastPublishDay != s.today() {
		today = 0
	}
	return doc.Analytics.TotalPosts, today, len(doc.Keywords), nil
}

func (s *RegistryStore) today() string {
	return s.now().Format("2006-01-02")
}

// load reads the full registry document, returning an empty document if
// the file does not exist yet
func (s *RegistryStore) load() (*registryDocument, error) {
	doc := &registryDocument{
		Keywords: make(map[string]signal.Record),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("error reading registry: %w", err)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("error parsing registry: %w", err)
	}
	if doc.Keywords == nil {
		doc.Keywords = make(map[string]signal.Record)
	}

	return doc, nil
}

// save rewrites the full registry document atomically
func (s *RegistryStore) save(doc *registryDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling registry: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over the destination
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing %s: %w", path, err)
	}

	return nil
}
