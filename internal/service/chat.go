package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"moodline.app/pulse/common/id"
	"moodline.app/pulse/common/logger"
	"moodline.app/pulse/internal/classifier"
	"moodline.app/pulse/internal/metrics"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/queue"
	"moodline.app/pulse/internal/store"
)

// ChatTurn is the outcome of one processed user message. Analysis is nil
// when the verdict could not be stored.
type ChatTurn struct {
	UserMessage *model.Message
	BotMessage  *model.Message
	Analysis    *model.MessageAnalysis
}

type ChatService interface {
	ProcessTurn(ctx context.Context, userID int64, text string) (*ChatTurn, error)
}

type chatService struct {
	userStore     store.UserStore
	messageStore  store.MessageStore
	analysisStore store.AnalysisStore
	classifier    classifier.Classifier
	replies       ReplyGenerator
	producer      queue.Producer
	historyLimit  int
}

func NewChatService(
	userStore store.UserStore,
	messageStore store.MessageStore,
	analysisStore store.AnalysisStore,
	cls classifier.Classifier,
	replies ReplyGenerator,
	producer queue.Producer,
	historyLimit int,
) ChatService {
	if historyLimit <= 0 {
		historyLimit = 12
	}
	return &chatService{
		userStore:     userStore,
		messageStore:  messageStore,
		analysisStore: analysisStore,
		classifier:    cls,
		replies:       replies,
		producer:      producer,
		historyLimit:  historyLimit,
	}
}

// ProcessTurn saves the user message, analyzes it, generates the bot reply
// and saves that too. Analysis and reply generation are best-effort: their
// failures degrade the turn but never fail it. Only store failures on the
// two messages are fatal.
func (s *chatService) ProcessTurn(ctx context.Context, userID int64, text string) (*ChatTurn, error) {
	start := time.Now()
	sc := logger.StartSpan(ctx, "chat.process_turn")
	defer sc.End()
	ctx = logger.WithLogFields(sc.Context(), logger.LogFields{
		UserID:    &userID,
		Component: "pulse.service.chat",
	})

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	userMsg := &model.Message{
		ID:     id.New(),
		UserID: userID,
		Sender: model.SenderUser,
		Text:   text,
	}
	if err := s.messageStore.Create(ctx, userMsg); err != nil {
		sc.RecordError(err)
		metrics.ObserveChatTurn(time.Since(start), metrics.OutcomeError)
		return nil, fmt.Errorf("saving user message: %w", err)
	}

	analysis, analysisDegraded := s.analyzeMessage(ctx, userMsg)
	reply, replyDegraded := s.buildReply(ctx, userID, text)

	botMsg := &model.Message{
		ID:     id.New(),
		UserID: userID,
		Sender: model.SenderBot,
		Text:   reply,
	}
	if err := s.messageStore.Create(ctx, botMsg); err != nil {
		sc.RecordError(err)
		metrics.ObserveChatTurn(time.Since(start), metrics.OutcomeError)
		return nil, fmt.Errorf("saving bot message: %w", err)
	}

	if analysis != nil {
		s.announceAnalysis(ctx, userMsg, analysis)
	}

	outcome := metrics.OutcomeSuccess
	if analysisDegraded || replyDegraded || analysis == nil {
		outcome = metrics.OutcomeFallback
	}
	metrics.ObserveChatTurn(time.Since(start), outcome)

	slog.InfoContext(ctx, "chat turn processed",
		"user_message_id", userMsg.ID,
		"bot_message_id", botMsg.ID,
		"outcome", outcome)

	return &ChatTurn{UserMessage: userMsg, BotMessage: botMsg, Analysis: analysis}, nil
}

// analyzeMessage classifies the message and stores the verdict. Classifier
// failures store the neutral fallback so the UI always has a row to show;
// store failures drop the analysis entirely.
func (s *chatService) analyzeMessage(ctx context.Context, msg *model.Message) (*model.MessageAnalysis, bool) {
	clsStart := time.Now()
	verdict, err := s.classifier.Classify(ctx, msg.Text)
	degraded := false
	if err != nil {
		metrics.ObserveClassification(s.classifier.Provider(), time.Since(clsStart), metrics.OutcomeError)
		slog.ErrorContext(ctx, "classification failed, storing neutral fallback",
			"error", err,
			"message_id", msg.ID)
		verdict = classifier.Neutral()
		degraded = true
	} else {
		metrics.ObserveClassification(s.classifier.Provider(), time.Since(clsStart), metrics.OutcomeSuccess)
	}

	scores, err := json.Marshal(verdict.Scores)
	if err != nil {
		scores = nil
	}

	analysis := &model.MessageAnalysis{
		ID:             id.New(),
		MessageID:      msg.ID,
		SentimentLabel: verdict.Label,
		SentimentScore: verdict.Confidence,
		Polarity:       verdict.Polarity,
		Scores:         scores,
	}
	if err := s.analysisStore.Create(ctx, analysis); err != nil {
		slog.ErrorContext(ctx, "failed to store analysis",
			"error", err,
			"message_id", msg.ID)
		return nil, true
	}
	return analysis, degraded
}

// buildReply asks the LLM for a reply over the recent transcript. Failures
// and empty completions fall back to echo replies.
func (s *chatService) buildReply(ctx context.Context, userID int64, text string) (string, bool) {
	history, err := s.messageStore.ListRecentByUser(ctx, userID, int32(s.historyLimit))
	if err != nil {
		slog.WarnContext(ctx, "failed to load chat history", "error", err)
		history = nil
	}
	// Stores return newest first; the prompt reads top to bottom.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	reply, err := s.replies.Generate(ctx, history, text)
	if err != nil {
		slog.ErrorContext(ctx, "reply generation failed", "error", err)
		return fmt.Sprintf("(llm-error) You said: %s", text), true
	}
	if reply == "" {
		return fmt.Sprintf("(llm-empty) You said: %s", text), true
	}
	return reply, false
}

// announceAnalysis hands the stored verdict to the worker. Enqueue failures
// degrade alerting, not the chat turn.
func (s *chatService) announceAnalysis(ctx context.Context, msg *model.Message, analysis *model.MessageAnalysis) {
	task := queue.AnalysisMessage{
		UserID:    msg.UserID,
		MessageID: msg.ID,
		Polarity:  analysis.Polarity,
		Attempt:   1,
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		traceID := sc.TraceID().String()
		task.TraceID = &traceID
	}

	if err := s.producer.Enqueue(ctx, task); err != nil {
		slog.WarnContext(ctx, "failed to enqueue analysis task",
			"error", err,
			"message_id", msg.ID)
	}
}
