package contract

import (
	"context"

	"ai-salesbot-be/internal/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.OrderDraft) error
	FindById(ctx context.Context, id int64) (*entity.OrderDraft, error)
	FindByUserId(ctx context.Context, userId string) ([]*entity.OrderDraft, error)
	UpdateStatus(ctx context.Context, id int64, status, trackingNo string) error
	Delete(ctx context.Context, id int64) error
}
