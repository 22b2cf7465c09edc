package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"moodline.app/pulse/internal/http/handler"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/mood"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

var _ = Describe("AnalyticsHandler", func() {
	var (
		router    *gin.Engine
		analytics *mockAnalyticsService
	)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		analytics = &mockAnalyticsService{}
		h := handler.NewAnalyticsHandler(analytics)
		router.GET("/analytics/users/:id/sentiment", h.Sentiment)
		router.GET("/analytics/users/:id/mood-trend", h.MoodTrend)
		router.GET("/analytics/users/:id/alerts", h.Alerts)
	})

	Describe("Sentiment", func() {
		It("returns 200 with the aggregate", func() {
			avg := 0.42
			analytics.sentimentFn = func(_ context.Context, userID int64) (*service.SentimentResult, error) {
				return &service.SentimentResult{
					UserID:          userID,
					AveragePolarity: &avg,
					Label:           "Positive",
					Description:     "Positive",
					MessageCount:    12,
				}, nil
			}

			w := get("/analytics/users/7/sentiment")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["user_id"]).To(Equal("7"))
			Expect(resp["average_polarity"]).To(Equal(0.42))
			Expect(resp["label"]).To(Equal("Positive"))
		})

		It("serializes a missing average as null, not zero", func() {
			w := get("/analytics/users/7/sentiment")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["average_polarity"]).To(BeNil())
			Expect(resp["label"]).To(Equal("Unknown"))
		})

		It("returns 404 when the user does not exist", func() {
			analytics.sentimentFn = func(_ context.Context, _ int64) (*service.SentimentResult, error) {
				return nil, store.ErrNotFound
			}

			w := get("/analytics/users/7/sentiment")

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("MoodTrend", func() {
		It("returns 200 with the full report", func() {
			slope := -0.2
			start, end := 0.45, -0.3
			delta := end - start
			analytics.moodTrendFn = func(_ context.Context, userID int64, _ service.TrendQuery) (*service.TrendReport, error) {
				return &service.TrendReport{
					UserID:     userID,
					Count:      3,
					Polarities: []float64{0.4, 0.5, -0.3},
					Smoothed:   []float64{0.4, 0.5, -0.3},
					Slope:      &slope,
					StartMean:  &start,
					EndMean:    &end,
					Delta:      &delta,
					Trend:      mood.TrendDecreasing,
					Shifts: []mood.Shift{
						{Index: 2, Direction: mood.DirectionFalling, Magnitude: -0.8},
					},
					ShiftPoints: []service.ShiftPoint{
						{Index: 2, MessageID: 102, Timestamp: time.Now(), Polarity: -0.3, Reason: mood.ReasonCrossedZero},
					},
					Summary:      "Mood dipped toward the end.",
					SummaryLabel: "Negative",
				}, nil
			}

			w := get("/analytics/users/7/mood-trend")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["trend"]).To(Equal("decreasing"))
			Expect(resp["count"]).To(Equal(float64(3)))
			Expect(resp["summary"]).To(Equal("Mood dipped toward the end."))

			shifts, ok := resp["shifts"].([]any)
			Expect(ok).To(BeTrue())
			Expect(shifts).To(HaveLen(1))
			shift := shifts[0].(map[string]any)
			Expect(shift["direction"]).To(Equal("falling"))

			points, ok := resp["shift_points"].([]any)
			Expect(ok).To(BeTrue())
			point := points[0].(map[string]any)
			Expect(point["message_id"]).To(Equal("102"))
			Expect(point["reason"]).To(Equal("crossed_zero"))
		})

		It("serializes an empty report with [] series, not null", func() {
			analytics.moodTrendFn = func(_ context.Context, userID int64, _ service.TrendQuery) (*service.TrendReport, error) {
				return &service.TrendReport{UserID: userID, Trend: mood.TrendUnknown}, nil
			}

			w := get("/analytics/users/7/mood-trend")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["polarities"]).To(Equal([]any{}))
			Expect(resp["smoothed"]).To(Equal([]any{}))
			Expect(resp["slope"]).To(BeNil())
		})

		It("passes window and last_n through to the service", func() {
			var captured service.TrendQuery
			analytics.moodTrendFn = func(_ context.Context, userID int64, query service.TrendQuery) (*service.TrendReport, error) {
				captured = query
				return &service.TrendReport{UserID: userID}, nil
			}

			w := get("/analytics/users/7/mood-trend?window=5&last_n=50")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(captured.Window).To(Equal(5))
			Expect(captured.LastN).To(Equal(50))
		})

		It("returns 400 on an out-of-range window", func() {
			w := get("/analytics/users/7/mood-trend?window=500")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 when the user does not exist", func() {
			analytics.moodTrendFn = func(_ context.Context, _ int64, _ service.TrendQuery) (*service.TrendReport, error) {
				return nil, store.ErrNotFound
			}

			w := get("/analytics/users/7/mood-trend")

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 500 when the report build fails", func() {
			analytics.moodTrendFn = func(_ context.Context, _ int64, _ service.TrendQuery) (*service.TrendReport, error) {
				return nil, errors.New("boom")
			}

			w := get("/analytics/users/7/mood-trend")

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Alerts", func() {
		It("returns 200 with the alert list", func() {
			analytics.alertsFn = func(_ context.Context, userID int64, _ int32) ([]model.MoodAlert, error) {
				return []model.MoodAlert{
					{ID: 1, UserID: userID, MessageID: 102, Kind: model.AlertSharpDrop, Magnitude: -0.8, Summary: "Mood dipped."},
				}, nil
			}

			w := get("/analytics/users/7/alerts")

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			alerts, ok := resp["alerts"].([]any)
			Expect(ok).To(BeTrue())
			Expect(alerts).To(HaveLen(1))
			alert := alerts[0].(map[string]any)
			Expect(alert["kind"]).To(Equal("sharp_drop"))
			Expect(alert["message_id"]).To(Equal("102"))
		})

		It("passes the limit query through", func() {
			var capturedLimit int32
			analytics.alertsFn = func(_ context.Context, _ int64, limit int32) ([]model.MoodAlert, error) {
				capturedLimit = limit
				return nil, nil
			}

			w := get("/analytics/users/7/alerts?limit=3")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(capturedLimit).To(Equal(int32(3)))
		})

		It("returns 400 on an invalid limit", func() {
			w := get("/analytics/users/7/alerts?limit=-1")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 when the user does not exist", func() {
			analytics.alertsFn = func(_ context.Context, _ int64, _ int32) ([]model.MoodAlert, error) {
				return nil, store.ErrNotFound
			}

			w := get("/analytics/users/7/alerts")

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
