package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutGetExists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "cat.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, "cat.png")
	assert.ErrorIs(t, err, ErrNotExist)

	require.NoError(t, s.Put(ctx, "cat.png", []byte("meow")))

	ok, err = s.Exists(ctx, "cat.png")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := s.Get(ctx, "cat.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), data)
}

func TestLocalStore_RejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStore(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Put(ctx, "../escape.png", []byte("x")), ErrInvalidName)
	_, err = s.Get(ctx, "../uploads/cat.png")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = s.Exists(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, statErr := os.Stat(filepath.Join(root, "escape.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "a.png", []byte("a")))
	require.NoError(t, s.Put(ctx, "b.jpg", []byte("b")))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested"), 0o755))

	n, err := s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())

	n, err = s.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
