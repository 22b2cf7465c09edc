package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"moodline.app/pulse/internal/model"
)

type messageStore struct {
	db DBTX
}

func newMessageStore(db DBTX) MessageStore {
	return &messageStore{db: db}
}

const getMessageByID = `
SELECT id, user_id, sender, text, created_at
FROM messages
WHERE id = $1
`

func (s *messageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var m model.Message
	err := s.db.QueryRow(ctx, getMessageByID, id).
		Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

const createMessage = `
INSERT INTO messages (id, user_id, sender, text)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, sender, text, created_at
`

func (s *messageStore) Create(ctx context.Context, msg *model.Message) error {
	return s.db.QueryRow(ctx, createMessage, msg.ID, msg.UserID, msg.Sender, msg.Text).
		Scan(&msg.ID, &msg.UserID, &msg.Sender, &msg.Text, &msg.CreatedAt)
}

const listRecentMessagesByUser = `
SELECT id, user_id, sender, text, created_at
FROM messages
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

func (s *messageStore) ListRecentByUser(ctx context.Context, userID int64, limit int32) ([]model.Message, error) {
	rows, err := s.db.Query(ctx, listRecentMessagesByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

const listRecentMessagesWithAnalysis = `
SELECT m.id, m.user_id, m.sender, m.text, m.created_at,
       a.id, a.sentiment_label, a.sentiment_score, a.polarity, a.scores, a.created_at
FROM messages m
LEFT JOIN message_analyses a ON a.message_id = m.id
WHERE m.user_id = $1
ORDER BY m.created_at DESC, m.id DESC
LIMIT $2
`

func (s *messageStore) ListRecentWithAnalysisByUser(ctx context.Context, userID int64, limit int32) ([]model.MessageWithAnalysis, error) {
	rows, err := s.db.Query(ctx, listRecentMessagesWithAnalysis, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MessageWithAnalysis
	for rows.Next() {
		var (
			item      model.MessageWithAnalysis
			aID       *int64
			aLabel    *string
			aScore    *float64
			aPolarity *float64
			aScores   []byte
			aCreated  *time.Time
		)
		m := &item.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Text, &m.CreatedAt,
			&aID, &aLabel, &aScore, &aPolarity, &aScores, &aCreated); err != nil {
			return nil, err
		}
		if aID != nil {
			item.Analysis = &model.MessageAnalysis{
				ID:             *aID,
				MessageID:      m.ID,
				SentimentLabel: *aLabel,
				SentimentScore: *aScore,
				Polarity:       *aPolarity,
				Scores:         aScores,
				CreatedAt:      *aCreated,
			}
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
