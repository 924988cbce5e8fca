package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/model"
	"ai-salesbot-be/internal/pkg/apperror"
	"ai-salesbot-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepositoryImpl struct {
	db       *gorm.DB
	maxTurns int
	ttl      time.Duration
}

func NewSessionRepository(db *gorm.DB, maxTurns int, ttl time.Duration) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:       db,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

func (r *SessionRepositoryImpl) Get(ctx context.Context, sessionId string) (*entity.Session, error) {
	var m model.Session
	err := r.db.WithContext(ctx).First(&m, "id = ?", sessionId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.New(apperror.KindStorage, "sessions.get", err)
	}

	// Lazy reaping: a session past its TTL is treated as non-existent.
	if time.Since(m.UpdatedAt) > r.ttl {
		if err := r.Delete(ctx, sessionId); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var turns []entity.Turn
	if err := json.Unmarshal(m.Turns, &turns); err != nil {
		return nil, apperror.New(apperror.KindStorage, "sessions.get", err)
	}

	return &entity.Session{
		Id:        m.Id,
		Turns:     turns,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, sessionId string, turns []entity.Turn) error {
	truncated := entity.TruncateTurns(turns, r.maxTurns)
	if truncated == nil {
		truncated = []entity.Turn{}
	}

	raw, err := json.Marshal(truncated)
	if err != nil {
		return apperror.New(apperror.KindStorage, "sessions.save", err)
	}

	now := time.Now()
	m := model.Session{
		Id:        sessionId,
		Turns:     datatypes.JSON(raw),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"turns", "updated_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return apperror.New(apperror.KindStorage, "sessions.save", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, sessionId string) error {
	err := r.db.WithContext(ctx).Delete(&model.Session{}, "id = ?", sessionId).Error
	if err != nil {
		return apperror.New(apperror.KindStorage, "sessions.delete", err)
	}
	return nil
}

func (r *SessionRepositoryImpl) Count(ctx context.Context) (int64, error) {
	if err := r.reapExpired(ctx); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).Count(&count).Error
	if err != nil {
		return 0, apperror.New(apperror.KindStorage, "sessions.count", err)
	}
	return count, nil
}

func (r *SessionRepositoryImpl) ListAll(ctx context.Context) ([]*entity.Session, error) {
	if err := r.reapExpired(ctx); err != nil {
		return nil, err
	}

	var models []*model.Session
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&models).Error
	if err != nil {
		return nil, apperror.New(apperror.KindStorage, "sessions.list_all", err)
	}

	sessions := make([]*entity.Session, 0, len(models))
	for _, m := range models {
		var turns []entity.Turn
		if err := json.Unmarshal(m.Turns, &turns); err != nil {
			turns = nil
		}
		sessions = append(sessions, &entity.Session{
			Id:        m.Id,
			Turns:     turns,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return sessions, nil
}

func (r *SessionRepositoryImpl) reapExpired(ctx context.Context) error {
	cutoff := time.Now().Add(-r.ttl)
	err := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&model.Session{}).Error
	if err != nil {
		return apperror.New(apperror.KindStorage, "sessions.reap", err)
	}
	return nil
}
