package dto

type GuardRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
	UserId    string `json:"user_id,omitempty"`
}

type GuardCheckDTO struct {
	Passed    bool    `json:"passed"`
	CheckName string  `json:"check_name"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
}

// GuardResponse is the combined verdict, plus the agent reply fields when
// the message passed and was forwarded.
type GuardResponse struct {
	Allowed     bool          `json:"allowed"`
	VectorCheck GuardCheckDTO `json:"vector_check"`
	LLMCheck    GuardCheckDTO `json:"llm_check"`
	SessionId   string        `json:"session_id,omitempty"`
	Reply       string        `json:"response,omitempty"`
	ImageIds    []string      `json:"image_ids,omitempty"`
}
