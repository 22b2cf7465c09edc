package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"moodline.app/pulse/internal/http/dto"
	"moodline.app/pulse/internal/service"
	"moodline.app/pulse/internal/store"
)

type UserHandler struct {
	userService    service.UserService
	messageService service.MessageService
}

func NewUserHandler(userService service.UserService, messageService service.MessageService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		messageService: messageService,
	}
}

// Register creates the user for a username, or returns the existing one.
// Clients treat this as "log in", so hitting an existing name is a 200, not
// a conflict.
func (h *UserHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(ctx, req.Username)
	if err != nil {
		slog.ErrorContext(ctx, "failed to register user", "error", err, "username", req.Username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to load user", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ListMessages returns the user's recent messages, newest first, each with
// its analysis when one exists.
func (h *UserHandler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, ok := parseLimitQuery(c, 100)
	if !ok {
		return
	}

	items, err := h.messageService.ListWithAnalysis(ctx, userID, limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to list messages", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageWithAnalysisList(items))
}

// parseIDParam reads a snowflake ID path param, writing the 400 itself so
// handlers only deal with the happy path.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func parseLimitQuery(c *gin.Context, fallback int32) (int32, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit < 1 || limit > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return int32(limit), true
}
