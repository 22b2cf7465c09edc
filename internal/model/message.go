package model

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageWithAnalysis pairs a message with its classifier verdict. Analysis
// is nil for bot messages and for user messages not yet analyzed.
type MessageWithAnalysis struct {
	Message  Message          `json:"message"`
	Analysis *MessageAnalysis `json:"analysis"`
}
