package dto

import (
	"time"

	"moodline.app/pulse/internal/model"
)

type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
}

type UserResponse struct {
	ID        int64     `json:"id,string"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
