package dto

import (
	"encoding/json"
	"time"

	"moodline.app/pulse/internal/model"
)

type MessageResponse struct {
	ID        int64     `json:"id,string"`
	UserID    int64     `json:"user_id,string"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type AnalysisResponse struct {
	ID             int64           `json:"id,string"`
	MessageID      int64           `json:"message_id,string"`
	SentimentLabel string          `json:"sentiment_label"`
	SentimentScore float64         `json:"sentiment_score"`
	Polarity       float64         `json:"polarity"`
	Scores         json.RawMessage `json:"scores,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MessageWithAnalysisResponse pairs a message with its verdict. Analysis is
// null for bot messages and for user messages still awaiting analysis.
type MessageWithAnalysisResponse struct {
	Message  *MessageResponse  `json:"message"`
	Analysis *AnalysisResponse `json:"analysis"`
}

func ToMessageResponse(m *model.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Sender:    string(m.Sender),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func ToAnalysisResponse(a *model.MessageAnalysis) *AnalysisResponse {
	return &AnalysisResponse{
		ID:             a.ID,
		MessageID:      a.MessageID,
		SentimentLabel: a.SentimentLabel,
		SentimentScore: a.SentimentScore,
		Polarity:       a.Polarity,
		Scores:         a.Scores,
		CreatedAt:      a.CreatedAt,
	}
}

func ToMessageWithAnalysisResponse(item model.MessageWithAnalysis) MessageWithAnalysisResponse {
	resp := MessageWithAnalysisResponse{Message: ToMessageResponse(&item.Message)}
	if item.Analysis != nil {
		resp.Analysis = ToAnalysisResponse(item.Analysis)
	}
	return resp
}

func ToMessageWithAnalysisList(items []model.MessageWithAnalysis) []MessageWithAnalysisResponse {
	out := make([]MessageWithAnalysisResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToMessageWithAnalysisResponse(item))
	}
	return out
}
