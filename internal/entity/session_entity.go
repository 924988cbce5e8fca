package entity

import "time"

// Turn is one entry in a session's conversation history. Only text turns
// are persisted; tool invocations and their results live in the in-flight
// request history and are filtered out before a session is saved.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Session is a bounded, expiring record of one conversation's turn history.
// The store owns it exclusively: callers get a snapshot copy on read and
// submit a full replacement on write.
type Session struct {
	Id        string
	Turns     []Turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TruncateTurns drops the oldest excess turns so at most max remain,
// preserving the relative order of the remainder. max <= 0 means unbounded.
func TruncateTurns(turns []Turn, max int) []Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	return turns[len(turns)-max:]
}

// CloneTurns returns an independent copy so callers can never mutate the
// store's view in place.
func CloneTurns(turns []Turn) []Turn {
	if turns == nil {
		return nil
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
