package store

import (
	"context"
	"errors"

	"moodline.app/pulse/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// MessageStore defines the contract for message data access
type MessageStore interface {
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	Create(ctx context.Context, msg *model.Message) error
	// ListRecentByUser returns up to limit messages, newest first.
	ListRecentByUser(ctx context.Context, userID int64, limit int32) ([]model.Message, error)
	// ListRecentWithAnalysisByUser returns up to limit messages, newest
	// first, each paired with its analysis when one exists.
	ListRecentWithAnalysisByUser(ctx context.Context, userID int64, limit int32) ([]model.MessageWithAnalysis, error)
}

// AnalysisStore defines the contract for per-message classifier verdicts
type AnalysisStore interface {
	GetByMessageID(ctx context.Context, messageID int64) (*model.MessageAnalysis, error)
	Create(ctx context.Context, analysis *model.MessageAnalysis) error
	// ListPolarityPointsByUser returns the newest lastN points of the
	// user's polarity series, ordered oldest first so indexes line up
	// with the chronological stream. lastN <= 0 returns every point.
	ListPolarityPointsByUser(ctx context.Context, userID int64, lastN int32) ([]model.PolarityPoint, error)
}

// AlertStore defines the contract for mood alert data access
type AlertStore interface {
	// Create inserts the alert and reports whether a row was written.
	// Duplicates of the same (message, kind) pair are skipped so requeued
	// tasks stay idempotent.
	Create(ctx context.Context, alert *model.MoodAlert) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit int32) ([]model.MoodAlert, error)
}
