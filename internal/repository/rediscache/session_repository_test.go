package rediscache

import (
	"context"
	"os"
	"testing"
	"time"

	"image-processing-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	repo := NewSessionRepository(rdb, time.Minute)

	id := uuid.NewString()
	require.NoError(t, repo.Save(ctx, &store.Session{ID: id, UserName: "Ada", UserID: 7, CurrentUpload: "1a2b3c4d_cat.png"}))

	got, found, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "1a2b3c4d_cat.png", got.CurrentUpload)

	require.NoError(t, repo.Delete(ctx, id))
	_, found, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, found)
}
