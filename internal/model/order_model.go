package model

import "time"

type OrderDraft struct {
	Id           int64  `gorm:"primaryKey;autoIncrement"`
	UserId       string `gorm:"type:text;not null;index"`
	ProductName  string `gorm:"type:text;not null"`
	Quantity     int    `gorm:"not null;default:1"`
	TotalPrice   float64
	CustomerName string    `gorm:"type:text"`
	Address      string    `gorm:"type:text"`
	Phone        string    `gorm:"type:text"`
	Status       string    `gorm:"type:text;not null;default:'draft';index"`
	TrackingNo   string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (OrderDraft) TableName() string {
	return "order_drafts"
}
