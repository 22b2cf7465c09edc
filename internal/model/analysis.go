package model

import (
	"encoding/json"
	"time"
)

// MessageAnalysis is the classifier verdict for one user message. Bot
// messages are never analyzed.
type MessageAnalysis struct {
	ID             int64           `json:"id"`
	MessageID      int64           `json:"message_id"`
	SentimentLabel string          `json:"sentiment_label"` // POSITIVE, NEGATIVE, NEUTRAL
	SentimentScore float64         `json:"sentiment_score"` // top-class probability in [0, 1]
	Polarity       float64         `json:"polarity"`        // signed score in [-1, +1]
	Scores         json.RawMessage `json:"scores,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PolarityPoint is the slim analytics projection of one analyzed message.
// Listings are ordered oldest to newest so indexes line up with the
// chronological polarity stream.
type PolarityPoint struct {
	MessageID int64     `json:"message_id"`
	Polarity  float64   `json:"polarity"`
	CreatedAt time.Time `json:"created_at"`
}
