package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"moodline.app/pulse/common/id"
	"moodline.app/pulse/internal/cache"
	"moodline.app/pulse/internal/metrics"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/mood"
	"moodline.app/pulse/internal/queue"
	"moodline.app/pulse/internal/service"
)

type AlertProcessorConfig struct {
	// Options are the analysis parameters alerts are judged against. They
	// must match the API defaults so the cached report is the one the API
	// would serve.
	Options mood.Options
	// LastN bounds how many recent points feed the report.
	LastN int
	// CacheTTL is how long the refreshed trend report stays warm.
	CacheTTL time.Duration
}

// AlertProcessor reacts to one analyzed message: it rebuilds the sender's
// mood report, records an alert when the new message lands on a sharp shift
// or a mood flip, and write-throughs the refreshed report into the cache.
// Alerts are deduped per (message, kind), so replays are safe.
type AlertProcessor struct {
	txRunner service.TxRunner
	cache    cache.Provider
	cfg      AlertProcessorConfig
}

func NewAlertProcessor(txRunner service.TxRunner, cacheProvider cache.Provider, cfg AlertProcessorConfig) *AlertProcessor {
	def := mood.DefaultOptions()
	if cfg.Options.Window < 1 {
		cfg.Options.Window = def.Window
	}
	if !(cfg.Options.ShiftThreshold > 0) {
		cfg.Options.ShiftThreshold = def.ShiftThreshold
	}
	if cfg.LastN < 1 {
		cfg.LastN = service.DefaultTrendLastN
	}
	return &AlertProcessor{
		txRunner: txRunner,
		cache:    cacheProvider,
		cfg:      cfg,
	}
}

func (p *AlertProcessor) Process(ctx context.Context, msg queue.Message) error {
	var (
		points []model.PolarityPoint
		report *mood.Report
	)

	// Points are read and alerts written in one transaction, so two workers
	// replaying the same message see the same snapshot and the dedupe
	// constraint settles the race.
	err := p.txRunner.WithTx(ctx, func(stores service.StoreProvider) error {
		var err error
		points, err = stores.Analyses().ListPolarityPointsByUser(ctx, msg.UserID, int32(p.cfg.LastN))
		if err != nil {
			return fmt.Errorf("listing polarity points: %w", err)
		}
		if len(points) == 0 {
			// The analysis row vanished (conversation deleted); nothing to do.
			slog.WarnContext(ctx, "no polarity points for analyzed message")
			return nil
		}

		report, err = mood.BuildReport(polarities(points), p.cfg.Options)
		if err != nil {
			return fmt.Errorf("building mood report: %w", err)
		}

		idx, found := indexOfMessage(points, msg.MessageID)
		if !found {
			// The message slid out of the lastN window before we got here.
			slog.InfoContext(ctx, "analyzed message outside report window, skipping alerts")
			return nil
		}

		for _, alert := range alertsAt(report, idx) {
			alert.ID = id.New()
			alert.UserID = msg.UserID
			alert.MessageID = msg.MessageID
			created, err := stores.Alerts().Create(ctx, &alert)
			if err != nil {
				return fmt.Errorf("creating %s alert: %w", alert.Kind, err)
			}
			if !created {
				slog.DebugContext(ctx, "alert already recorded", "kind", alert.Kind)
				continue
			}
			metrics.CountMoodAlert(string(alert.Kind))
			slog.InfoContext(ctx, "mood alert recorded",
				"kind", alert.Kind,
				"magnitude", alert.Magnitude)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if report != nil {
		p.refreshTrendCache(ctx, msg.UserID, report, points)
	}
	return nil
}

// alertsAt collects the qualifying events for one curve index. A falling
// shift raises sharp_drop, a rising one sharp_rise, and a zero crossing
// mood_flip; one message can raise all of a drop-or-rise and a flip.
func alertsAt(report *mood.Report, idx int) []model.MoodAlert {
	var alerts []model.MoodAlert

	for _, s := range report.Shifts {
		if s.Index != idx {
			continue
		}
		kind := model.AlertSharpRise
		if s.Direction == mood.DirectionFalling {
			kind = model.AlertSharpDrop
		}
		alerts = append(alerts, model.MoodAlert{
			Kind:      kind,
			Magnitude: s.Magnitude,
			Summary:   report.Headline,
		})
	}

	for _, m := range report.Markers {
		if m.Index != idx || m.Reason != mood.ReasonCrossedZero {
			continue
		}
		alerts = append(alerts, model.MoodAlert{
			Kind:      model.AlertMoodFlip,
			Magnitude: report.Smoothed[m.Index] - report.Smoothed[m.Index-1],
			Summary:   report.Headline,
		})
	}

	return alerts
}

// refreshTrendCache stores the default-parameter report under the same key
// the API reads, so the next dashboard load is warm. Failures only cost a
// recompute.
func (p *AlertProcessor) refreshTrendCache(ctx context.Context, userID int64, report *mood.Report, points []model.PolarityPoint) {
	trend := service.NewTrendReport(userID, report, points)
	blob, err := json.Marshal(trend)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode trend report for cache", "error", err)
		return
	}

	key := service.TrendCacheKey(userID, service.TrendQuery{
		Window: p.cfg.Options.Window,
		LastN:  p.cfg.LastN,
	})
	if err := p.cache.Set(ctx, key, blob, p.cfg.CacheTTL); err != nil {
		slog.WarnContext(ctx, "trend cache refresh failed", "error", err)
	}
}

func indexOfMessage(points []model.PolarityPoint, messageID int64) (int, bool) {
	// Newest points live at the tail; the analyzed message is almost always
	// the last one.
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].MessageID == messageID {
			return i, true
		}
	}
	return 0, false
}

func polarities(points []model.PolarityPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Polarity
	}
	return values
}
