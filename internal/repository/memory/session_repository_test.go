package memory

import (
	"context"
	"testing"
	"time"

	"image-processing-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	_, found, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	s := &store.Session{ID: "abc", UserName: "Ada", UserID: 1}
	require.NoError(t, repo.Save(ctx, s))

	got, found, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ada", got.UserName)

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, found, _ = repo.Get(ctx, "abc")
	assert.False(t, found)
}

func TestSessionRepository_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)

	s := &store.Session{ID: "abc", UserName: "Ada", UserID: 1, CurrentUpload: "a.png"}
	require.NoError(t, repo.Save(ctx, s))

	s.CurrentUpload = "changed.png"
	got, _, _ := repo.Get(ctx, "abc")
	assert.Equal(t, "a.png", got.CurrentUpload)

	got.CurrentProcessed = "mutated.png"
	again, _, _ := repo.Get(ctx, "abc")
	assert.Empty(t, again.CurrentProcessed)
}

func TestSessionRepository_Expires(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)

	require.NoError(t, repo.Save(ctx, &store.Session{ID: "short"}))
	time.Sleep(50 * time.Millisecond)

	_, found, err := repo.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)
}
