package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"moodline.app/pulse/internal/model"
)

type analysisStore struct {
	db DBTX
}

func newAnalysisStore(db DBTX) AnalysisStore {
	return &analysisStore{db: db}
}

const getAnalysisByMessageID = `
SELECT id, message_id, sentiment_label, sentiment_score, polarity, scores, created_at
FROM message_analyses
WHERE message_id = $1
`

func (s *analysisStore) GetByMessageID(ctx context.Context, messageID int64) (*model.MessageAnalysis, error) {
	var a model.MessageAnalysis
	err := s.db.QueryRow(ctx, getAnalysisByMessageID, messageID).
		Scan(&a.ID, &a.MessageID, &a.SentimentLabel, &a.SentimentScore, &a.Polarity, &a.Scores, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

const createAnalysis = `
INSERT INTO message_analyses (id, message_id, sentiment_label, sentiment_score, polarity, scores)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, message_id, sentiment_label, sentiment_score, polarity, scores, created_at
`

func (s *analysisStore) Create(ctx context.Context, analysis *model.MessageAnalysis) error {
	return s.db.QueryRow(ctx, createAnalysis,
		analysis.ID, analysis.MessageID, analysis.SentimentLabel, analysis.SentimentScore,
		analysis.Polarity, analysis.Scores).
		Scan(&analysis.ID, &analysis.MessageID, &analysis.SentimentLabel, &analysis.SentimentScore,
			&analysis.Polarity, &analysis.Scores, &analysis.CreatedAt)
}

// Point timestamps come from the message, not the analysis row, so the
// series stays in conversation order even when a verdict lands late. The
// inner query trims to the newest lastN points; the outer one restores
// chronological order. LIMIT NULL means no limit.
const listPolarityPointsByUser = `
SELECT message_id, polarity, created_at
FROM (
	SELECT a.message_id, a.polarity, m.created_at
	FROM message_analyses a
	JOIN messages m ON m.id = a.message_id
	WHERE m.user_id = $1
	ORDER BY m.created_at DESC, m.id DESC
	LIMIT $2
) recent
ORDER BY created_at ASC, message_id ASC
`

func (s *analysisStore) ListPolarityPointsByUser(ctx context.Context, userID int64, lastN int32) ([]model.PolarityPoint, error) {
	var limit *int32
	if lastN > 0 {
		limit = &lastN
	}
	rows, err := s.db.Query(ctx, listPolarityPointsByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.PolarityPoint
	for rows.Next() {
		var p model.PolarityPoint
		if err := rows.Scan(&p.MessageID, &p.Polarity, &p.CreatedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
