package service

import (
	"context"
	"fmt"

	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/store"
)

const defaultMessageListLimit = 100

type MessageService interface {
	// GetAnalysis returns the classifier verdict for one message.
	// store.ErrNotFound covers both a missing message and a missing verdict.
	GetAnalysis(ctx context.Context, messageID int64) (*model.MessageAnalysis, error)
	// ListWithAnalysis returns the user's recent messages newest first,
	// each paired with its verdict when one exists.
	ListWithAnalysis(ctx context.Context, userID int64, limit int32) ([]model.MessageWithAnalysis, error)
}

type messageService struct {
	userStore     store.UserStore
	messageStore  store.MessageStore
	analysisStore store.AnalysisStore
}

func NewMessageService(userStore store.UserStore, messageStore store.MessageStore, analysisStore store.AnalysisStore) MessageService {
	return &messageService{
		userStore:     userStore,
		messageStore:  messageStore,
		analysisStore: analysisStore,
	}
}

func (s *messageService) GetAnalysis(ctx context.Context, messageID int64) (*model.MessageAnalysis, error) {
	if _, err := s.messageStore.GetByID(ctx, messageID); err != nil {
		return nil, fmt.Errorf("loading message: %w", err)
	}
	return s.analysisStore.GetByMessageID(ctx, messageID)
}

func (s *messageService) ListWithAnalysis(ctx context.Context, userID int64, limit int32) ([]model.MessageWithAnalysis, error) {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if limit <= 0 {
		limit = defaultMessageListLimit
	}
	return s.messageStore.ListRecentWithAnalysisByUser(ctx, userID, limit)
}
