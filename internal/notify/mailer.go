package notify

import "context"

type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type Message struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Mailer sends one templated message. Delivery failures never surface to
// the booking protocols; the dispatcher logs and moves on.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
