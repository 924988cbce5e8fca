package dto

type SendChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
	UserId    string `json:"user_id,omitempty"`
}

type SendChatResponse struct {
	SessionId string   `json:"session_id"`
	Reply     string   `json:"response"`
	ImageIds  []string `json:"image_ids"`
	TurnCount int      `json:"memory_count"`
}

type GetAllSessionsResponse struct {
	Id        string `json:"id"`
	TurnCount int    `json:"turn_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type SessionCountResponse struct {
	Count int64 `json:"count"`
}
