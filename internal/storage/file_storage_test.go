package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gedops/internal/types"
)

func save(t *testing.T, st Storage, location, content string) {
	t.Helper()
	err := st.Save(context.Background(), location, types.File{
		Content: types.NoOpReadCloser{Reader: bytes.NewReader([]byte(content))},
		Stat:    types.FileStat{Size: int64(len(content))},
	})
	require.NoError(t, err)
}

func TestFileStorage_SaveGetRoundTrip(t *testing.T) {
	st := NewFileStorage()
	location := filepath.Join(t.TempDir(), "database", "ged_backup_20240101_020000.bak")

	save(t, st, location, "dump bytes")

	file, err := st.Get(context.Background(), location)
	require.NoError(t, err)
	defer file.Content.Close()

	content, err := io.ReadAll(file.Content)
	require.NoError(t, err)
	assert.Equal(t, "dump bytes", string(content))
	assert.Equal(t, int64(10), file.Stat.Size)
}

func TestFileStorage_ListFiltersByPrefix(t *testing.T) {
	st := NewFileStorage()
	dir := t.TempDir()

	save(t, st, filepath.Join(dir, "database", "a.bak"), "a")
	save(t, st, filepath.Join(dir, "database", "b.bak"), "bb")
	save(t, st, filepath.Join(dir, "files", "c.zip"), "ccc")

	objects, err := st.List(context.Background(), filepath.Join(dir, "database"))
	require.NoError(t, err)
	require.Len(t, objects, 2)
	for _, obj := range objects {
		assert.Contains(t, obj.Location, "database")
		assert.WithinDuration(t, time.Now(), obj.ModTime, time.Minute)
	}
}

func TestFileStorage_ListMissingDir(t *testing.T) {
	st := NewFileStorage()
	objects, err := st.List(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestFileStorage_DeleteIsIdempotent(t *testing.T) {
	st := NewFileStorage()
	location := filepath.Join(t.TempDir(), "a.bak")
	save(t, st, location, "x")

	require.NoError(t, st.Delete(context.Background(), location))
	_, err := os.Stat(location)
	assert.True(t, os.IsNotExist(err))

	// deleting an already-removed artifact is not an error
	assert.NoError(t, st.Delete(context.Background(), location))
}
