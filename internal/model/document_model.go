package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Document struct {
	Id             int64           `gorm:"primaryKey;autoIncrement"`
	Text           string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	Name           *string         `gorm:"type:text"`
	Sku            *string         `gorm:"type:text;index"`
	Price          *float64
	Stock          *int
	Color          *string `gorm:"type:text"`
	Model          *string `gorm:"type:text"`
	ScreenSize     *float64
	ImageIds       datatypes.JSON `gorm:"type:jsonb"`
	Collection     string         `gorm:"type:text;not null;default:'knowledge';index"`
	UserId         *string        `gorm:"type:text;index"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
