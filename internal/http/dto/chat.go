package dto

import "moodline.app/pulse/internal/service"

type ChatRequest struct {
	UserID int64  `json:"user_id,string" binding:"required"`
	Text   string `json:"text" binding:"required,min=1,max=4000"`
}

type ChatResponse struct {
	UserMessageID int64             `json:"user_message_id,string"`
	BotMessageID  int64             `json:"bot_message_id,string"`
	Reply         string            `json:"reply"`
	Analysis      *AnalysisResponse `json:"analysis"`
}

func ToChatResponse(turn *service.ChatTurn) *ChatResponse {
	resp := &ChatResponse{
		UserMessageID: turn.UserMessage.ID,
		BotMessageID:  turn.BotMessage.ID,
		Reply:         turn.BotMessage.Text,
	}
	if turn.Analysis != nil {
		resp.Analysis = ToAnalysisResponse(turn.Analysis)
	}
	return resp
}
