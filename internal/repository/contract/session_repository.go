package contract

import (
	"context"

	"image-processing-be/pkg/store"
)

// SessionRepository persists per-client session state between requests.
// Implementations store copies: mutating a returned session has no effect
// until Save is called.
type SessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
