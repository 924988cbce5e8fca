package dto

// WebhookEvent mirrors the Messenger page-event payload. Only the fields
// the service reads are mapped; everything else passes through unparsed.
type WebhookEvent struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	Id        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

type MessagingEvent struct {
	Sender    Participant      `json:"sender"`
	Recipient Participant      `json:"recipient"`
	Message   *IncomingMessage `json:"message,omitempty"`
	Postback  *Postback        `json:"postback,omitempty"`
}

type Participant struct {
	Id string `json:"id"`
}

type IncomingMessage struct {
	Mid         string       `json:"mid,omitempty"`
	Text        string       `json:"text,omitempty"`
	IsEcho      bool         `json:"is_echo,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Type string `json:"type"`
}

type Postback struct {
	Title   string `json:"title,omitempty"`
	Payload string `json:"payload,omitempty"`
}
