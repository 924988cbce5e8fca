package implementation

import (
	"context"
	"errors"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/mapper"
	"ai-salesbot-be/internal/model"
	"ai-salesbot-be/internal/pkg/apperror"
	"ai-salesbot-be/internal/repository/contract"

	"gorm.io/gorm"
)

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *entity.OrderDraft) error {
	m := mapper.OrderToModel(order)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperror.New(apperror.KindStorage, "orders.create", err)
	}
	*order = *mapper.OrderToEntity(m)
	return nil
}

// FindById returns (nil, nil) for an unknown id: a missing order is a valid
// answer the agent reports back, not a failure.
func (r *OrderRepositoryImpl) FindById(ctx context.Context, id int64) (*entity.OrderDraft, error) {
	var m model.OrderDraft
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.New(apperror.KindStorage, "orders.find", err)
	}
	return mapper.OrderToEntity(&m), nil
}

func (r *OrderRepositoryImpl) FindByUserId(ctx context.Context, userId string) ([]*entity.OrderDraft, error) {
	var models []*model.OrderDraft
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperror.New(apperror.KindStorage, "orders.find_by_user", err)
	}
	orders := make([]*entity.OrderDraft, len(models))
	for i, m := range models {
		orders[i] = mapper.OrderToEntity(m)
	}
	return orders, nil
}

func (r *OrderRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status, trackingNo string) error {
	updates := map[string]interface{}{"status": status}
	if trackingNo != "" {
		updates["tracking_no"] = trackingNo
	}
	err := r.db.WithContext(ctx).
		Model(&model.OrderDraft{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return apperror.New(apperror.KindStorage, "orders.update_status", err)
	}
	return nil
}

func (r *OrderRepositoryImpl) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&model.OrderDraft{}, id).Error; err != nil {
		return apperror.New(apperror.KindStorage, "orders.delete", err)
	}
	return nil
}
