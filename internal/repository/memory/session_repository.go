package memory

import (
	"context"
	"sync"
	"time"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/repository/contract"
)

// SessionRepository is an in-memory SessionRepository with the same
// truncation and TTL laws as the persistent one, so service tests can run
// without a database.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	maxTurns int
	ttl      time.Duration

	// now is swappable so expiry is testable without sleeping.
	now func() time.Time
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(maxTurns int, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entity.Session),
		maxTurns: maxTurns,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (r *SessionRepository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *SessionRepository) Get(ctx context.Context, sessionId string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionId]
	if !ok {
		return nil, nil
	}
	if r.now().Sub(s.UpdatedAt) > r.ttl {
		delete(r.sessions, sessionId)
		return nil, nil
	}

	return &entity.Session{
		Id:        s.Id,
		Turns:     entity.CloneTurns(s.Turns),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

func (r *SessionRepository) Save(ctx context.Context, sessionId string, turns []entity.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	truncated := entity.TruncateTurns(entity.CloneTurns(turns), r.maxTurns)
	now := r.now()

	if existing, ok := r.sessions[sessionId]; ok {
		existing.Turns = truncated
		existing.UpdatedAt = now
		return nil
	}

	r.sessions[sessionId] = &entity.Session{
		Id:        sessionId,
		Turns:     truncated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionId)
	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reapExpiredLocked()
	return int64(len(r.sessions)), nil
}

func (r *SessionRepository) ListAll(ctx context.Context) ([]*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reapExpiredLocked()

	out := make([]*entity.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, &entity.Session{
			Id:        s.Id,
			Turns:     entity.CloneTurns(s.Turns),
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return out, nil
}

func (r *SessionRepository) reapExpiredLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
