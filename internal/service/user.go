package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"moodline.app/pulse/common/id"
	"moodline.app/pulse/internal/model"
	"moodline.app/pulse/internal/store"
)

type UserService interface {
	Register(ctx context.Context, username string) (*model.User, error)
	Get(ctx context.Context, userID int64) (*model.User, error)
}

type userService struct {
	userStore store.UserStore
}

func NewUserService(userStore store.UserStore) UserService {
	return &userService{userStore: userStore}
}

// Register returns the existing user for username, creating one if needed.
// Two concurrent registrations of the same name race on the unique index;
// the loser re-reads the row that won.
func (s *userService) Register(ctx context.Context, username string) (*model.User, error) {
	existing, err := s.userStore.GetByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	user := &model.User{
		ID:       id.New(),
		Username: username,
	}
	if err := s.userStore.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return s.userStore.GetByUsername(ctx, username)
		}
		slog.ErrorContext(ctx, "failed to create user",
			"error", err,
			"username", username,
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", username)
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID int64) (*model.User, error) {
	return s.userStore.GetByID(ctx, userID)
}
