package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"moodline.app/pulse/internal/model"
)

type userStore struct {
	db DBTX
}

func newUserStore(db DBTX) UserStore {
	return &userStore{db: db}
}

const getUserByID = `
SELECT id, username, created_at, updated_at
FROM users
WHERE id = $1
`

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx, getUserByID, id).Scan(&u.ID, &u.Username, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

const getUserByUsername = `
SELECT id, username, created_at, updated_at
FROM users
WHERE username = $1
`

func (s *userStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx, getUserByUsername, username).Scan(&u.ID, &u.Username, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

const createUser = `
INSERT INTO users (id, username)
VALUES ($1, $2)
RETURNING id, username, created_at, updated_at
`

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	return s.db.QueryRow(ctx, createUser, user.ID, user.Username).
		Scan(&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt)
}
