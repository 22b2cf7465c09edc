package model

import "time"

type AlertKind string

const (
	AlertSharpDrop AlertKind = "sharp_drop"
	AlertSharpRise AlertKind = "sharp_rise"
	AlertMoodFlip  AlertKind = "mood_flip"
)

// MoodAlert records a notable mood movement detected by the background
// analyzer. At most one alert exists per (message, kind), so requeued tasks
// do not duplicate rows.
type MoodAlert struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MessageID int64     `json:"message_id"`
	Kind      AlertKind `json:"kind"`
	Magnitude float64   `json:"magnitude"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
