package dto

import (
	"time"

	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/mood"
	"moodline.app/pulse/internal/service"
)

// TrendQueryParams are the optional knobs of a mood-trend request. Zero
// values defer to the service defaults.
type TrendQueryParams struct {
	Window int `form:"window" binding:"omitempty,min=1,max=99"`
	LastN  int `form:"last_n" binding:"omitempty,min=1,max=1000"`
}

type SentimentResponse struct {
	UserID          int64    `json:"user_id,string"`
	AveragePolarity *float64 `json:"average_polarity"`
	Label           string   `json:"label"`
	Description     string   `json:"description"`
	MessageCount    int      `json:"message_count"`
}

type ShiftResponse struct {
	Index     int     `json:"index"`
	Direction string  `json:"direction"`
	Magnitude float64 `json:"magnitude"`
}

type ShiftPointResponse struct {
	Index     int       `json:"index"`
	MessageID int64     `json:"message_id,string"`
	Timestamp time.Time `json:"timestamp"`
	Polarity  float64   `json:"polarity"`
	Reason    string    `json:"reason"`
}

type MoodTrendResponse struct {
	UserID       int64                `json:"user_id,string"`
	Count        int                  `json:"count"`
	Polarities   []float64            `json:"polarities"`
	Smoothed     []float64            `json:"smoothed"`
	Slope        *float64             `json:"slope"`
	StartMean    *float64             `json:"start_mean"`
	EndMean      *float64             `json:"end_mean"`
	Delta        *float64             `json:"delta"`
	Trend        string               `json:"trend"`
	Shifts       []ShiftResponse      `json:"shifts"`
	ShiftPoints  []ShiftPointResponse `json:"shift_points"`
	Summary      string               `json:"summary"`
	SummaryLabel string               `json:"summary_label"`
}

type AlertResponse struct {
	ID        int64     `json:"id,string"`
	UserID    int64     `json:"user_id,string"`
	MessageID int64     `json:"message_id,string"`
	Kind      string    `json:"kind"`
	Magnitude float64   `json:"magnitude"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

func ToSentimentResponse(r *service.SentimentResult) *SentimentResponse {
	return &SentimentResponse{
		UserID:          r.UserID,
		AveragePolarity: r.AveragePolarity,
		Label:           r.Label,
		Description:     r.Description,
		MessageCount:    r.MessageCount,
	}
}

func ToMoodTrendResponse(r *service.TrendReport) *MoodTrendResponse {
	shifts := make([]ShiftResponse, 0, len(r.Shifts))
	for _, s := range r.Shifts {
		shifts = append(shifts, toShiftResponse(s))
	}
	points := make([]ShiftPointResponse, 0, len(r.ShiftPoints))
	for _, p := range r.ShiftPoints {
		points = append(points, ShiftPointResponse{
			Index:     p.Index,
			MessageID: p.MessageID,
			Timestamp: p.Timestamp,
			Polarity:  p.Polarity,
			Reason:    string(p.Reason),
		})
	}

	return &MoodTrendResponse{
		UserID:       r.UserID,
		Count:        r.Count,
		Polarities:   emptyIfNil(r.Polarities),
		Smoothed:     emptyIfNil(r.Smoothed),
		Slope:        r.Slope,
		StartMean:    r.StartMean,
		EndMean:      r.EndMean,
		Delta:        r.Delta,
		Trend:        string(r.Trend),
		Shifts:       shifts,
		ShiftPoints:  points,
		Summary:      r.Summary,
		SummaryLabel: r.SummaryLabel,
	}
}

func ToAlertResponses(alerts []model.MoodAlert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertResponse{
			ID:        a.ID,
			UserID:    a.UserID,
			MessageID: a.MessageID,
			Kind:      string(a.Kind),
			Magnitude: a.Magnitude,
			Summary:   a.Summary,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

func toShiftResponse(s mood.Shift) ShiftResponse {
	return ShiftResponse{
		Index:     s.Index,
		Direction: string(s.Direction),
		Magnitude: s.Magnitude,
	}
}

// emptyIfNil keeps numeric series rendering as [] instead of null.
func emptyIfNil(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}
