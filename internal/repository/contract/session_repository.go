package contract

import (
	"context"

	"ai-salesbot-be/internal/entity"
)

type SessionRepository interface {
	// Get returns a snapshot of the session, or (nil, nil) when it does not
	// exist or has passed its TTL. An expired session is deleted as a side
	// effect. Storage failures are returned, never swallowed.
	Get(ctx context.Context, sessionId string) (*entity.Session, error)

	// Save replaces the stored turn list atomically, truncating to the
	// configured maximum by dropping the oldest excess entries. Creates the
	// session if absent.
	Save(ctx context.Context, sessionId string, turns []entity.Turn) error

	// Delete removes the session. Idempotent.
	Delete(ctx context.Context, sessionId string) error

	// Count and ListAll exist for observability only, never on the request
	// hot path.
	Count(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]*entity.Session, error)
}
