package storage_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fixlane/marketplace-api/internal/config"
	"github.com/fixlane/marketplace-api/internal/storage"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := []byte("before and after photos")
	path, size, err := store.Upload(ctx, "photos.zip", "application/zip", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.Equal(t, ".zip", filepath.Ext(path))

	// Paths are sharded two levels deep
	parts := strings.Split(filepath.ToSlash(path), "/")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 2)
	assert.Len(t, parts[1], 2)

	reader, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, _, err := store.Upload(ctx, "note.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Download(ctx, path)
	assert.Error(t, err)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, path))
}

func TestNewStorage_UnsupportedMode(t *testing.T) {
	_, err := storage.NewStorage(&config.StorageConfig{Mode: "tape"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewStorage_CloudRequiresConnectionString(t *testing.T) {
	_, err := storage.NewStorage(&config.StorageConfig{Mode: "cloud"}, zap.NewNop())
	assert.Error(t, err)
}
