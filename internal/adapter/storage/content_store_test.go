package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestContentStore(t *testing.T) (*ContentStore, string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.json")
	backup := filepath.Join(dir, "posts.json.bak")
	return NewContentStore(path, backup, testLogger()), path, backup
}

func TestContentStoreCommitAndRead(t *testing.T) {
	store, path, _ := newTestContentStore(t)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, samplePost("first-post")))
	require.NoError(t, store.Commit(ctx, samplePost("second-post")))

	posts, err := store.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// Newest first
	assert.Equal(t, "second-post", posts[0].Slug)
	assert.Equal(t, "first-post", posts[1].Slug)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"second-post"`)
}

func TestContentStoreRejectsInvalidPost(t *testing.T) {
	store, path, _ := newTestContentStore(t)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, samplePost("kept")))

	bad := samplePost("rejected")
	bad.Title = ""

	err := store.Commit(ctx, bad)
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "title", validation.Field)

	// Validation failures never touch the file
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "rejected")
	assert.Contains(t, string(data), "kept")
}

func TestContentStoreRejectsDuplicateSlug(t *testing.T) {
	store, _, _ := newTestContentStore(t)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, samplePost("same-slug")))

	err := store.Commit(ctx, samplePost("same-slug"))
	assert.Error(t, err)

	posts, err := store.Posts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestContentStoreRollsBackOnVerificationFailure(t *testing.T) {
	store, path, _ := newTestContentStore(t)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, samplePost("original")))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	store.verify = func(data []byte, slug string) bool { return false }

	err = store.Commit(ctx, samplePost("doomed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doomed")

	// The file is byte-for-byte what it was before the failed commit
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	posts, err := store.Posts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "original", posts[0].Slug)
}

func TestContentStoreBackupWrittenBeforeMutation(t *testing.T) {
	store, _, backupPath := newTestContentStore(t)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, samplePost("first-post")))
	require.NoError(t, store.Commit(ctx, samplePost("second-post")))

	// The backup holds the pre-mutation state
	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first-post")
	assert.NotContains(t, string(data), "second-post")
}

func TestRenderLegacyLiteral(t *testing.T) {
	data, err := RenderLegacyLiteral(nil)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "export const blogPosts = ")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), ";"))
}

func TestExportLegacy(t *testing.T) {
	store, _, _ := newTestContentStore(t)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, samplePost("exported-post")))

	exportPath := filepath.Join(t.TempDir(), "blogData.js")
	require.NoError(t, store.ExportLegacy(ctx, exportPath))

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export const blogPosts = ")
	assert.Contains(t, string(data), "exported-post")
}
