package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"moodline.app/pulse/common/llm"
	"moodline.app/pulse/common/logger"
	"moodline.app/pulse/internal/cache"
	"moodline.app/pulse/internal/metrics"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/mood"
	"moodline.app/pulse/internal/store"
)

const (
	// DefaultTrendLastN bounds how many recent analyzed messages feed a
	// trend report when the caller does not say.
	DefaultTrendLastN = 200

	defaultAlertLimit = 20
)

const summaryRewriteTemplate = `You are a helpful assistant that summarizes mood trends.

Inputs:
- trend: %s
- start_mean: %.2f
- end_mean: %.2f
- delta: %.2f
- slope: %s
- detected_shifts: %d (reasons: %s)

Write a concise human-friendly summary (2-3 sentences) describing how the user's mood changed across the conversation and suggested next steps for the assistant if any.`

// SentimentResult aggregates one user's whole conversation mood.
type SentimentResult struct {
	UserID          int64
	AveragePolarity *float64
	Label           string // three-way aggregate label, "Unknown" without data
	Description     string // five-bucket wording of the average
	MessageCount    int
}

// TrendQuery selects the slice and smoothing of a mood trend request.
type TrendQuery struct {
	Window int // moving-average window, 0 = configured default
	LastN  int // how many recent analyzed messages, 0 = DefaultTrendLastN
}

// ShiftPoint is a report marker bound to the message that produced it.
type ShiftPoint struct {
	Index     int
	MessageID int64
	Timestamp time.Time
	Polarity  float64
	Reason    mood.MarkerReason
}

// TrendReport is the full mood-trend analysis for one user. Mean fields are
// nil when no analyzed messages exist yet.
type TrendReport struct {
	UserID       int64
	Count        int
	Polarities   []float64
	Smoothed     []float64
	Slope        *float64
	StartMean    *float64
	EndMean      *float64
	Delta        *float64
	Trend        mood.TrendLabel
	Shifts       []mood.Shift
	ShiftPoints  []ShiftPoint
	Summary      string
	SummaryLabel string
}

type AnalyticsService interface {
	// Sentiment aggregates every stored polarity for the user.
	Sentiment(ctx context.Context, userID int64) (*SentimentResult, error)
	// MoodTrend serves the trend report for the query, from cache when warm.
	MoodTrend(ctx context.Context, userID int64, query TrendQuery) (*TrendReport, error)
	// Alerts lists recent mood alerts, newest first.
	Alerts(ctx context.Context, userID int64, limit int32) ([]model.MoodAlert, error)
}

type analyticsService struct {
	userStore     store.UserStore
	analysisStore store.AnalysisStore
	alertStore    store.AlertStore
	cache         cache.Provider
	summaryLLM    llm.ChatClient // nil disables the summary rewrite
	opts          mood.Options
	cacheTTL      time.Duration
	summaryTokens int
}

func NewAnalyticsService(
	userStore store.UserStore,
	analysisStore store.AnalysisStore,
	alertStore store.AlertStore,
	cacheProvider cache.Provider,
	summaryLLM llm.ChatClient,
	opts mood.Options,
	cacheTTL time.Duration,
	summaryTokens int,
) AnalyticsService {
	def := mood.DefaultOptions()
	if opts.Window < 1 {
		opts.Window = def.Window
	}
	if !(opts.ShiftThreshold > 0) {
		opts.ShiftThreshold = def.ShiftThreshold
	}
	return &analyticsService{
		userStore:     userStore,
		analysisStore: analysisStore,
		alertStore:    alertStore,
		cache:         cacheProvider,
		summaryLLM:    summaryLLM,
		opts:          opts,
		cacheTTL:      cacheTTL,
		summaryTokens: summaryTokens,
	}
}

func (s *analyticsService) Sentiment(ctx context.Context, userID int64) (*SentimentResult, error) {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	points, err := s.analysisStore.ListPolarityPointsByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("listing polarity points: %w", err)
	}
	if len(points) == 0 {
		return &SentimentResult{UserID: userID, Label: "Unknown", Description: "Unknown"}, nil
	}

	sentiment, err := mood.Aggregate(polarityValues(points))
	if err != nil {
		return nil, fmt.Errorf("aggregating polarity: %w", err)
	}

	score := sentiment.Score
	return &SentimentResult{
		UserID:          userID,
		AveragePolarity: &score,
		Label:           string(sentiment.Label),
		Description:     mood.Wording(score),
		MessageCount:    len(points),
	}, nil
}

func (s *analyticsService) MoodTrend(ctx context.Context, userID int64, query TrendQuery) (*TrendReport, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:    &userID,
		Component: "pulse.service.analytics",
	})

	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if query.Window < 1 {
		query.Window = s.opts.Window
	}
	if query.LastN < 1 {
		query.LastN = DefaultTrendLastN
	}

	key := TrendCacheKey(userID, query)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var report TrendReport
		if err := json.Unmarshal(cached, &report); err == nil {
			metrics.CountTrendReport(metrics.SourceCache)
			return &report, nil
		}
		slog.WarnContext(ctx, "dropping undecodable cached trend report", "error", err)
		_ = s.cache.Del(ctx, key)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.WarnContext(ctx, "trend cache read failed", "error", err)
	}

	points, err := s.analysisStore.ListPolarityPointsByUser(ctx, userID, int32(query.LastN))
	if err != nil {
		return nil, fmt.Errorf("listing polarity points: %w", err)
	}

	report, err := s.computeTrend(ctx, userID, query, points)
	if err != nil {
		return nil, err
	}

	s.storeTrend(ctx, key, report)
	metrics.CountTrendReport(metrics.SourceComputed)
	return report, nil
}

func (s *analyticsService) Alerts(ctx context.Context, userID int64, limit int32) ([]model.MoodAlert, error) {
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	return s.alertStore.ListByUser(ctx, userID, limit)
}

func (s *analyticsService) computeTrend(ctx context.Context, userID int64, query TrendQuery, points []model.PolarityPoint) (*TrendReport, error) {
	if len(points) == 0 {
		return &TrendReport{
			UserID:      userID,
			Polarities:  []float64{},
			Smoothed:    []float64{},
			Trend:       mood.TrendUnknown,
			ShiftPoints: []ShiftPoint{},
		}, nil
	}

	rep, err := mood.BuildReport(polarityValues(points), mood.Options{
		Window:         query.Window,
		ShiftThreshold: s.opts.ShiftThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("building mood report: %w", err)
	}

	report := NewTrendReport(userID, rep, points)
	if s.summaryLLM != nil {
		if rewritten := s.rewriteSummary(ctx, rep); rewritten != "" {
			report.Summary = rewritten
		}
	}
	return report, nil
}

// rewriteSummary asks the summary LLM for friendlier phrasing. An empty
// return keeps the template text.
func (s *analyticsService) rewriteSummary(ctx context.Context, rep *mood.Report) string {
	slopeStr := "N/A"
	if rep.Slope != nil {
		slopeStr = fmt.Sprintf("%.4f", *rep.Slope)
	}

	var reasons []string
	for _, m := range rep.Markers {
		if len(reasons) == 5 {
			break
		}
		reasons = append(reasons, string(m.Reason))
	}

	prompt := fmt.Sprintf(summaryRewriteTemplate,
		rep.Trend, rep.StartMean, rep.EndMean, rep.Delta,
		slopeStr, len(rep.Markers), strings.Join(reasons, ", "))

	resp, err := s.summaryLLM.Chat(ctx, llm.ChatRequest{
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: s.summaryTokens,
	})
	if err != nil {
		slog.WarnContext(ctx, "summary rewrite failed, keeping template text", "error", err)
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

func (s *analyticsService) storeTrend(ctx context.Context, key string, report *TrendReport) {
	blob, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, blob, s.cacheTTL); err != nil {
		slog.WarnContext(ctx, "trend cache write failed", "error", err)
	}
}

// NewTrendReport binds a computed mood report to the points it came from.
// The worker uses it for cache write-through, so its output must stay in
// lockstep with what MoodTrend serves.
func NewTrendReport(userID int64, rep *mood.Report, points []model.PolarityPoint) *TrendReport {
	shiftPoints := make([]ShiftPoint, 0, len(rep.Markers))
	for _, m := range rep.Markers {
		p := points[m.Index]
		shiftPoints = append(shiftPoints, ShiftPoint{
			Index:     m.Index,
			MessageID: p.MessageID,
			Timestamp: p.CreatedAt,
			Polarity:  m.Polarity,
			Reason:    m.Reason,
		})
	}

	return &TrendReport{
		UserID:       userID,
		Count:        len(rep.Values),
		Polarities:   rep.Values,
		Smoothed:     rep.Smoothed,
		Slope:        rep.Slope,
		StartMean:    &rep.StartMean,
		EndMean:      &rep.EndMean,
		Delta:        &rep.Delta,
		Trend:        rep.Trend,
		Shifts:       rep.Shifts,
		ShiftPoints:  shiftPoints,
		Summary:      rep.Summary,
		SummaryLabel: rep.SummaryLabel,
	}
}

// TrendCacheKey names the cached report for one (user, window, lastN) slice.
func TrendCacheKey(userID int64, query TrendQuery) string {
	return fmt.Sprintf("mood:trend:%d:w%d:n%d", userID, query.Window, query.LastN)
}

func polarityValues(points []model.PolarityPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Polarity
	}
	return values
}
