package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moodline.app/pulse/internal/http/dto"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Sentiment returns the conversation-level aggregate for one user. A user
// with no analyzed messages gets a null polarity and an Unknown label, never
// a fabricated zero.
func (h *AnalyticsHandler) Sentiment(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.analyticsService.Sentiment(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to compute sentiment", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute sentiment"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSentimentResponse(result))
}

// MoodTrend serves the full trend report for one user's recent messages.
func (h *AnalyticsHandler) MoodTrend(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params dto.TrendQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		slog.WarnContext(ctx, "invalid trend query", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.analyticsService.MoodTrend(ctx, userID, service.TrendQuery{
		Window: params.Window,
		LastN:  params.LastN,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to build mood trend", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build mood trend"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMoodTrendResponse(report))
}

// Alerts lists recent mood alerts raised by the background analyzer.
func (h *AnalyticsHandler) Alerts(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, ok := parseLimitQuery(c, 20)
	if !ok {
		return
	}

	alerts, err := h.analyticsService.Alerts(ctx, userID, limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to list alerts", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": dto.ToAlertResponses(alerts)})
}
