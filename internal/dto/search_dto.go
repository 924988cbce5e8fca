package dto

type HybridSearchRequest struct {
	Query     string   `json:"query" validate:"required"`
	TopK      int      `json:"top_k,omitempty" validate:"omitempty,min=1,max=50"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Color     string   `json:"color,omitempty"`
	Model     string   `json:"model,omitempty"`
	MinScreen *float64 `json:"min_screen,omitempty"`
	MaxScreen *float64 `json:"max_screen,omitempty"`
	MinStock  *int     `json:"min_stock,omitempty"`
	Refine    bool     `json:"refine,omitempty"`
}

type SearchResultDTO struct {
	Id         int64    `json:"id"`
	Text       string   `json:"text"`
	Name       *string  `json:"name,omitempty"`
	Sku        *string  `json:"sku,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Stock      *int     `json:"stock,omitempty"`
	Color      *string  `json:"color,omitempty"`
	Model      *string  `json:"model,omitempty"`
	ScreenSize *float64 `json:"screen_size,omitempty"`
	ImageIds   []string `json:"image_ids"`
	Score      *float64 `json:"score,omitempty"`
	Source     string   `json:"source"`
}

type HybridSearchResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Results []SearchResultDTO `json:"results"`
}
