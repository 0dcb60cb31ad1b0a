// internal/adapter/storage/export.go

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"autopress/internal/domain/post"
)

// RenderLegacyLiteral renders posts in the legacy content-source format,
// a JavaScript module declaring an exported array literal. The JSON
// content file remains the system of record; this is an optional emit
// step for consumers that still read the old format.
func RenderLegacyLiteral(posts []post.Post) ([]byte, error) {
	body, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshaling posts: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("// Generated file. Do not edit by hand.\n")
	buf.WriteString("export const blogPosts = ")
	buf.Write(body)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// ExportLegacy writes the legacy literal rendering of the current content
// store to the given path
func (s *ContentStore) ExportLegacy(ctx context.Context, path string) error {
	posts, err := s.Posts(ctx)
	if err != nil {
		return err
	}

	data, err := RenderLegacyLiteral(posts)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("error writing legacy export: %w", err)
	}
	return nil
}
