package worker_test

import (
	"context"
	"sync"
	"time"

	"moodline.app/pulse/internal/cache"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/queue"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

// mockConsumer guards its call records with a mutex because the worker loop
// runs in its own goroutine during Run tests.
type mockConsumer struct {
	mu        sync.Mutex
	readFn    func(ctx context.Context) ([]queue.Message, error)
	ackFn     func(ctx context.Context, msg queue.Message) error
	requeueFn func(ctx context.Context, msg queue.Message, errMsg string) error
	sendDLQFn func(ctx context.Context, msg queue.Message, errMsg string) error

	acked    []queue.Message
	requeued []queue.Message
	deadLet  []queue.Message
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	m.mu.Lock()
	fn := m.readFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	// Default to an idle stream; the tiny sleep keeps the Run loop cool.
	time.Sleep(time.Millisecond)
	return []queue.Message{}, nil
}

func (m *mockConsumer) Ack(ctx context.Context, msg queue.Message) error {
	m.mu.Lock()
	m.acked = append(m.acked, msg)
	fn := m.ackFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, msg)
	}
	return nil
}

func (m *mockConsumer) Requeue(ctx context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	m.requeued = append(m.requeued, msg)
	fn := m.requeueFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, msg, errMsg)
	}
	return nil
}

func (m *mockConsumer) SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	m.deadLet = append(m.deadLet, msg)
	fn := m.sendDLQFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, msg, errMsg)
	}
	return nil
}

func (m *mockConsumer) ackCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.acked)
}

func (m *mockConsumer) requeueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requeued)
}

func (m *mockConsumer) dlqCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.deadLet)
}

type mockProcessor struct {
	mu        sync.Mutex
	processFn func(ctx context.Context, msg queue.Message) error
	processed []queue.Message
}

func (m *mockProcessor) Process(ctx context.Context, msg queue.Message) error {
	m.mu.Lock()
	m.processed = append(m.processed, msg)
	fn := m.processFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, msg)
	}
	return nil
}

func (m *mockProcessor) processedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.processed)
}

type mockAnalysisStore struct {
	getByMessageIDFn           func(ctx context.Context, messageID int64) (*model.MessageAnalysis, error)
	createFn                   func(ctx context.Context, analysis *model.MessageAnalysis) error
	listPolarityPointsByUserFn func(ctx context.Context, userID int64, lastN int32) ([]model.PolarityPoint, error)
}

func (m *mockAnalysisStore) GetByMessageID(ctx context.Context, messageID int64) (*model.MessageAnalysis, error) {
	if m.getByMessageIDFn != nil {
		return m.getByMessageIDFn(ctx, messageID)
	}
	return nil, nil
}

func (m *mockAnalysisStore) Create(ctx context.Context, analysis *model.MessageAnalysis) error {
	if m.createFn != nil {
		return m.createFn(ctx, analysis)
	}
	return nil
}

func (m *mockAnalysisStore) ListPolarityPointsByUser(ctx context.Context, userID int64, lastN int32) ([]model.PolarityPoint, error) {
	if m.listPolarityPointsByUserFn != nil {
		return m.listPolarityPointsByUserFn(ctx, userID, lastN)
	}
	return []model.PolarityPoint{}, nil
}

type mockAlertStore struct {
	createFn     func(ctx context.Context, alert *model.MoodAlert) (bool, error)
	listByUserFn func(ctx context.Context, userID int64, limit int32) ([]model.MoodAlert, error)
	created      []model.MoodAlert
}

func (m *mockAlertStore) Create(ctx context.Context, alert *model.MoodAlert) (bool, error) {
	m.created = append(m.created, *alert)
	if m.createFn != nil {
		return m.createFn(ctx, alert)
	}
	return true, nil
}

func (m *mockAlertStore) ListByUser(ctx context.Context, userID int64, limit int32) ([]model.MoodAlert, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return []model.MoodAlert{}, nil
}

// mockStoreProvider hands out only the stores the alert processor touches.
type mockStoreProvider struct {
	analyses *mockAnalysisStore
	alerts   *mockAlertStore
}

func (m *mockStoreProvider) Users() store.UserStore        { return nil }
func (m *mockStoreProvider) Messages() store.MessageStore  { return nil }
func (m *mockStoreProvider) Analyses() store.AnalysisStore { return m.analyses }
func (m *mockStoreProvider) Alerts() store.AlertStore      { return m.alerts }

type mockTxRunner struct {
	provider *mockStoreProvider
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return fn(m.provider)
}

type cacheWrite struct {
	key   string
	value []byte
	ttl   time.Duration
}

type mockCache struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	sets  []cacheWrite
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets = append(m.sets, cacheWrite{key: key, value: value, ttl: ttl})
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) Del(ctx context.Context, key string) error { return nil }
