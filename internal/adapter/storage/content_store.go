// internal/adapter/storage/content_store.go

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"autopress/internal/domain/post"
)

// ValidationError reports a malformed post rejected before any storage
// is touched
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid post: field %s %s", e.Field, e.Reason)
}

// ContentStore performs the durable mutation of the content file with a
// backup-before-write and verify-after-write discipline. On any failure
// after the backup is taken, the file is restored from the backup and
// the original error is returned.
type ContentStore struct {
	path       string
	backupPath string
	log        *logrus.Logger
	mu         sync.Mutex

	// verify re-reads the written file and confirms the new record's
	// slug is present. Replaceable in tests.
	verify func(data []byte, slug string) bool
}

// NewContentStore creates a new content store
func NewContentStore(path, backupPath string, log *logrus.Logger) *ContentStore {
	s := &ContentStore{
		path:       path,
		backupPath: backupPath,
		log:        log,
	}
	s.verify = s.slugPresent
	return s
}

// Commit validates a post, splices it at the head of the content file and
// verifies the write, rolling back from the backup on failure.
func (s *ContentStore) Commit(ctx context.Context, p post.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validation never touches storage
	if err := validatePost(p); err != nil {
		return err
	}

	// Backup is best-effort; a failure here does not abort the commit
	backedUp := s.backup()

	if err := s.mutate(p); err != nil {
		if backedUp {
			if restoreErr := s.restore(); restoreErr != nil {
				s.log.WithFields(logrus.Fields{
					"error":         err,
					"restore_error": restoreErr,
				}).Error("Content store rollback failed")
			} else {
				s.log.WithField("slug", p.Slug).Warn("Content store restored from backup")
			}
		}
		return err
	}

	return nil
}

// Posts returns all posts in the content file, newest first
func (s *ContentStore) Posts(ctx context.Context) ([]post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// mutate performs the read-splice-write-verify sequence
func (s *ContentStore) mutate(p post.Post) error {
	posts, err := s.read()
	if err != nil {
		return err
	}

	for _, existing := range posts {
		if existing.Slug == p.Slug {
			return fmt.Errorf("persistence error: slug %q already present in content store", p.Slug)
		}
	}

	// Newest-first ordering
	posts = append([]post.Post{p}, posts...)

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence error: marshaling content: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("persistence error: %w", err)
	}

	written, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("persistence error: re-reading content for verification: %w", err)
	}
	if !s.verify(written, p.Slug) {
		return fmt.Errorf("persistence error: slug %q not found after write", p.Slug)
	}

	return nil
}

func (s *ContentStore) read() ([]post.Post, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []post.Post{}, nil
		}
		return nil, fmt.Errorf("persistence error: reading content store: %w", err)
	}

	var posts []post.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("persistence error: parsing content store: %w", err)
	}
	return posts, nil
}

// backup copies the current content file aside. Returns false when there
// was nothing to back up or the copy failed.
func (s *ContentStore) backup() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.WithError(err).Warn("Content store backup read failed")
		}
		return false
	}

	if err := writeFileAtomic(s.backupPath, data); err != nil {
		s.log.WithError(err).Warn("Content store backup write failed")
		return false
	}
	return true
}

func (s *ContentStore) restore() error {
	data, err := os.ReadFile(s.backupPath)
	if err != nil {
		return fmt.Errorf("error reading backup: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func (s *ContentStore) slugPresent(data []byte, slug string) bool {
	return bytes.Contains(data, []byte(fmt.Sprintf("%q", slug)))
}

// validatePost checks required fields before any storage is touched
func validatePost(p post.Post) error {
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if strings.TrimSpace(p.Slug) == "" {
		return &ValidationError{Field: "slug", Reason: "is required"}
	}
	if strings.TrimSpace(p.Content) == "" {
		return &ValidationError{Field: "content", Reason: "is required"}
	}
	if strings.TrimSpace(p.Category) == "" {
		return &ValidationError{Field: "category", Reason: "is required"}
	}
	if p.Tags == nil {
		return &ValidationError{Field: "tags", Reason: "must be a list"}
	}
	if p.PublishedAt.IsZero() {
		return &ValidationError{Field: "publishedAt", Reason: "is required"}
	}
	return nil
}
