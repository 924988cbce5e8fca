package dto

// PublishEmbedDocumentMessage is the event bus payload telling the consumer
// to embed and store one document. The text travels with the message so the
// consumer never re-reads source files.
type PublishEmbedDocumentMessage struct {
	Text       string   `json:"text"`
	Collection string   `json:"collection"`
	Name       *string  `json:"name,omitempty"`
	Sku        *string  `json:"sku,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Stock      *int     `json:"stock,omitempty"`
	Color      *string  `json:"color,omitempty"`
	Model      *string  `json:"model,omitempty"`
	ScreenSize *float64 `json:"screen_size,omitempty"`
	ImageIds   []string `json:"image_ids,omitempty"`
	UserId     *string  `json:"user_id,omitempty"`
}

type IngestRequest struct {
	Text       string   `json:"text" validate:"required"`
	Collection string   `json:"collection,omitempty" validate:"omitempty,oneof=knowledge memory"`
	ImageIds   []string `json:"image_ids,omitempty"`
}

type IngestResponse struct {
	Queued bool `json:"queued"`
}
