package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"moodline.app/pulse/internal/model"
)

type alertStore struct {
	db DBTX
}

func newAlertStore(db DBTX) AlertStore {
	return &alertStore{db: db}
}

const createAlert = `
INSERT INTO mood_alerts (id, user_id, message_id, kind, magnitude, summary)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (message_id, kind) DO NOTHING
RETURNING id, user_id, message_id, kind, magnitude, summary, created_at
`

func (s *alertStore) Create(ctx context.Context, alert *model.MoodAlert) (bool, error) {
	err := s.db.QueryRow(ctx, createAlert,
		alert.ID, alert.UserID, alert.MessageID, alert.Kind, alert.Magnitude, alert.Summary).
		Scan(&alert.ID, &alert.UserID, &alert.MessageID, &alert.Kind, &alert.Magnitude, &alert.Summary, &alert.CreatedAt)
	if err != nil {
		// DO NOTHING yields no row on conflict; the alert already exists.
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

const listAlertsByUser = `
SELECT id, user_id, message_id, kind, magnitude, summary, created_at
FROM mood_alerts
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

func (s *alertStore) ListByUser(ctx context.Context, userID int64, limit int32) ([]model.MoodAlert, error) {
	rows, err := s.db.Query(ctx, listAlertsByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.MoodAlert
	for rows.Next() {
		var a model.MoodAlert
		if err := rows.Scan(&a.ID, &a.UserID, &a.MessageID, &a.Kind, &a.Magnitude, &a.Summary, &a.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
