package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"image-processing-be/internal/repository/contract"
	"image-processing-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// SessionRepository shares sessions between instances through Redis.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.rdb.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var s store.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &s, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, keyPrefix+sessionID).Err()
}
