package entity

import "time"

// Document is one unit of retrievable content: a knowledge entry or a
// catalog item. Metadata fields are nullable — records created before a
// column existed stay valid with missing values.
type Document struct {
	Id         int64
	Text       string
	Embedding  []float32
	Name       *string
	Sku        *string
	Price      *float64
	Stock      *int
	Color      *string
	Model      *string
	ScreenSize *float64
	ImageIds   []string
	Collection string
	UserId     *string
	CreatedAt  time.Time
}

// Document collections sharing one vector store.
const (
	CollectionKnowledge = "knowledge"
	CollectionMemory    = "memory"
)
