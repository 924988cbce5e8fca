package model

import (
	"time"

	"gorm.io/datatypes"
)

type Session struct {
	Id        string         `gorm:"primaryKey;type:text"`
	Turns     datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;index"`
}

func (Session) TableName() string {
	return "sessions"
}
