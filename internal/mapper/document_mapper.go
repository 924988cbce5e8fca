package mapper

import (
	"encoding/json"

	"ai-salesbot-be/internal/entity"
	"ai-salesbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	var imageIds datatypes.JSON
	if len(e.ImageIds) > 0 {
		raw, err := json.Marshal(e.ImageIds)
		if err == nil {
			imageIds = datatypes.JSON(raw)
		}
	}

	return &model.Document{
		Id:             e.Id,
		Text:           e.Text,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		Name:           e.Name,
		Sku:            e.Sku,
		Price:          e.Price,
		Stock:          e.Stock,
		Color:          e.Color,
		Model:          e.Model,
		ScreenSize:     e.ScreenSize,
		ImageIds:       imageIds,
		Collection:     e.Collection,
		UserId:         e.UserId,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentMapper) ToEntity(mo *model.Document) *entity.Document {
	var imageIds []string
	if len(mo.ImageIds) > 0 {
		// Old rows may hold null or malformed JSON; treat as no images.
		_ = json.Unmarshal(mo.ImageIds, &imageIds)
	}

	return &entity.Document{
		Id:         mo.Id,
		Text:       mo.Text,
		Embedding:  mo.EmbeddingValue.Slice(),
		Name:       mo.Name,
		Sku:        mo.Sku,
		Price:      mo.Price,
		Stock:      mo.Stock,
		Color:      mo.Color,
		Model:      mo.Model,
		ScreenSize: mo.ScreenSize,
		ImageIds:   imageIds,
		Collection: mo.Collection,
		UserId:     mo.UserId,
		CreatedAt:  mo.CreatedAt,
	}
}
