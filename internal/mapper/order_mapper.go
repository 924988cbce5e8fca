package mapper

import (
	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/model"
)

func OrderToModel(e *entity.OrderDraft) *model.OrderDraft {
	return &model.OrderDraft{
		Id:           e.Id,
		UserId:       e.UserId,
		ProductName:  e.ProductName,
		Quantity:     e.Quantity,
		TotalPrice:   e.TotalPrice,
		CustomerName: e.CustomerName,
		Address:      e.Address,
		Phone:        e.Phone,
		Status:       e.Status,
		TrackingNo:   e.TrackingNo,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func OrderToEntity(m *model.OrderDraft) *entity.OrderDraft {
	return &entity.OrderDraft{
		Id:           m.Id,
		UserId:       m.UserId,
		ProductName:  m.ProductName,
		Quantity:     m.Quantity,
		TotalPrice:   m.TotalPrice,
		CustomerName: m.CustomerName,
		Address:      m.Address,
		Phone:        m.Phone,
		Status:       m.Status,
		TrackingNo:   m.TrackingNo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
