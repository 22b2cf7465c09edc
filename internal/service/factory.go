package service

import (
	"time"

	"moodline.app/pulse/common/llm"
	"moodline.app/pulse/core/config"
	"moodline.app/pulse/internal/cache"
	"moodline.app/pulse/internal/classifier"
	"moodline.app/pulse/internal/mood"
	"moodline.app/pulse/internal/queue"
	"moodline.app/pulse/internal/store"
)

type Services struct {
	stores        *store.Stores
	classifier    classifier.Classifier
	replies       ReplyGenerator
	summaryLLM    llm.ChatClient
	producer      queue.Producer
	cache         cache.Provider
	analytics     config.AnalyticsConfig
	cacheTTL      time.Duration
	summaryTokens int
}

// NewServices wires the service layer. summaryLLM may be nil, which turns
// off the trend summary rewrite.
func NewServices(
	stores *store.Stores,
	cls classifier.Classifier,
	replies ReplyGenerator,
	summaryLLM llm.ChatClient,
	producer queue.Producer,
	cacheProvider cache.Provider,
	analyticsCfg config.AnalyticsConfig,
	cacheTTL time.Duration,
	summaryTokens int,
) *Services {
	return &Services{
		stores:        stores,
		classifier:    cls,
		replies:       replies,
		summaryLLM:    summaryLLM,
		producer:      producer,
		cache:         cacheProvider,
		analytics:     analyticsCfg,
		cacheTTL:      cacheTTL,
		summaryTokens: summaryTokens,
	}
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users())
}

func (s *Services) Chat() ChatService {
	return NewChatService(
		s.stores.Users(),
		s.stores.Messages(),
		s.stores.Analyses(),
		s.classifier,
		s.replies,
		s.producer,
		s.analytics.HistoryLimit,
	)
}

func (s *Services) Messages() MessageService {
	return NewMessageService(s.stores.Users(), s.stores.Messages(), s.stores.Analyses())
}

func (s *Services) Analytics() AnalyticsService {
	return NewAnalyticsService(
		s.stores.Users(),
		s.stores.Analyses(),
		s.stores.Alerts(),
		s.cache,
		s.summaryLLM,
		mood.Options{Window: s.analytics.Window, ShiftThreshold: s.analytics.ShiftThreshold},
		s.cacheTTL,
		s.summaryTokens,
	)
}
