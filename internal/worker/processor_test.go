package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"moodline.app/pulse/common/id"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/mood"
	"moodline.app/pulse/internal/queue"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/worker"
)

var _ = Describe("AlertProcessor", func() {
	var (
		analyses   *mockAnalysisStore
		alerts     *mockAlertStore
		txRunner   *mockTxRunner
		trendCache *mockCache
		processor  *worker.AlertProcessor
		ctx        context.Context
	)

	// points builds a chronological polarity series with message IDs
	// 100, 101, 102, ...
	points := func(polarities ...float64) []model.PolarityPoint {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		pts := make([]model.PolarityPoint, len(polarities))
		for i, p := range polarities {
			pts[i] = model.PolarityPoint{
				MessageID: int64(100 + i),
				Polarity:  p,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
		}
		return pts
	}

	serve := func(pts []model.PolarityPoint) {
		analyses.listPolarityPointsByUserFn = func(_ context.Context, _ int64, _ int32) ([]model.PolarityPoint, error) {
			return pts, nil
		}
	}

	msg := func(messageID int64) queue.Message {
		return queue.Message{
			ID:        "1-0",
			TaskType:  queue.TaskTypeMessageAnalyzed,
			UserID:    7,
			MessageID: messageID,
			Attempt:   1,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		analyses = &mockAnalysisStore{}
		alerts = &mockAlertStore{}
		txRunner = &mockTxRunner{provider: &mockStoreProvider{analyses: analyses, alerts: alerts}}
		trendCache = &mockCache{}

		err := id.Init(2)
		Expect(err).NotTo(HaveOccurred())

		// Window 1 keeps the smoothed curve equal to the raw series, so the
		// expected deltas are easy to read off the fixtures.
		processor = worker.NewAlertProcessor(txRunner, trendCache, worker.AlertProcessorConfig{
			Options:  mood.Options{Window: 1, ShiftThreshold: 0.5},
			LastN:    200,
			CacheTTL: 5 * time.Minute,
		})
	})

	Describe("Process", func() {
		It("should record a sharp_drop and a mood_flip for an abrupt negative swing", func() {
			serve(points(0.4, 0.5, -0.3))

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
			Expect(alerts.created).To(HaveLen(2))

			drop := alerts.created[0]
			Expect(drop.Kind).To(Equal(model.AlertSharpDrop))
			Expect(drop.Magnitude).To(BeNumerically("~", -0.8, 1e-9))
			Expect(drop.UserID).To(Equal(int64(7)))
			Expect(drop.MessageID).To(Equal(int64(102)))
			Expect(drop.ID).NotTo(BeZero())
			Expect(drop.Summary).NotTo(BeEmpty())

			flip := alerts.created[1]
			Expect(flip.Kind).To(Equal(model.AlertMoodFlip))
			Expect(flip.Magnitude).To(BeNumerically("~", -0.8, 1e-9))
		})

		It("should record a sharp_rise for an abrupt positive swing", func() {
			serve(points(0.1, 0.15, 0.8))

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
			Expect(alerts.created).To(HaveLen(1))
			Expect(alerts.created[0].Kind).To(Equal(model.AlertSharpRise))
			Expect(alerts.created[0].Magnitude).To(BeNumerically("~", 0.65, 1e-9))
		})

		It("should ignore events that belong to earlier messages", func() {
			// The swing happened one message ago; the newest point is calm.
			serve(points(0.4, -0.5, -0.4))

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
			Expect(alerts.created).To(BeEmpty())
			Expect(trendCache.sets).To(HaveLen(1))
		})

		It("should skip alerting when the message slid out of the report window", func() {
			serve(points(0.4, 0.5, -0.3))

			err := processor.Process(ctx, msg(999))

			Expect(err).NotTo(HaveOccurred())
			Expect(alerts.created).To(BeEmpty())
			// The report is still fresh, so the cache is refreshed anyway.
			Expect(trendCache.sets).To(HaveLen(1))
		})

		It("should do nothing when the user has no polarity points", func() {
			serve(points())

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
			Expect(alerts.created).To(BeEmpty())
			Expect(trendCache.sets).To(BeEmpty())
		})

		It("should tolerate already-recorded alerts on replay", func() {
			serve(points(0.4, 0.5, -0.3))
			alerts.createFn = func(_ context.Context, _ *model.MoodAlert) (bool, error) {
				return false, nil
			}

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
		})

		It("should propagate point listing failures for retry", func() {
			analyses.listPolarityPointsByUserFn = func(_ context.Context, _ int64, _ int32) ([]model.PolarityPoint, error) {
				return nil, errors.New("connection refused")
			}

			err := processor.Process(ctx, msg(102))

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("listing polarity points"))
		})

		It("should propagate alert insert failures for retry", func() {
			serve(points(0.4, 0.5, -0.3))
			alerts.createFn = func(_ context.Context, _ *model.MoodAlert) (bool, error) {
				return false, errors.New("insert failed")
			}

			err := processor.Process(ctx, msg(102))

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("insert failed"))
		})
	})

	Describe("cache write-through", func() {
		It("should refresh the trend report under the default key", func() {
			serve(points(0.4, 0.5, -0.3))

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
			Expect(trendCache.sets).To(HaveLen(1))

			write := trendCache.sets[0]
			Expect(write.key).To(Equal(service.TrendCacheKey(7, service.TrendQuery{Window: 1, LastN: 200})))
			Expect(write.ttl).To(Equal(5 * time.Minute))

			var report service.TrendReport
			Expect(json.Unmarshal(write.value, &report)).To(Succeed())
			Expect(report.UserID).To(Equal(int64(7)))
			Expect(report.Count).To(Equal(3))
			Expect(report.Smoothed).To(HaveLen(3))
			Expect(report.Summary).NotTo(BeEmpty())
		})

		It("should fall back to the default analysis parameters", func() {
			processor = worker.NewAlertProcessor(txRunner, trendCache, worker.AlertProcessorConfig{
				CacheTTL: time.Minute,
			})
			serve(points(0.4, 0.5, -0.3))

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
			Expect(trendCache.sets).To(HaveLen(1))
			Expect(trendCache.sets[0].key).To(Equal(
				service.TrendCacheKey(7, service.TrendQuery{Window: 3, LastN: 200})))
		})

		It("should not fail the task when the cache write errors", func() {
			serve(points(0.4, 0.5, -0.3))
			trendCache.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
				return errors.New("redis down")
			}

			err := processor.Process(ctx, msg(102))

			Expect(err).NotTo(HaveOccurred())
		})
	})
})
