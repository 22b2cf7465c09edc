package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moodline.app/pulse/common/llm"
	"moodline.app/pulse/common/logger"
	"moodline.app/pulse/internal/model"
)

const replyTemplate = `You are a helpful AI assistant.

The conversation so far is:
%s

User: %s

Reply naturally as the assistant:`

// ReplyGenerator produces the bot's reply to one user message. History is
// ordered oldest to newest and already includes the message being replied
// to. Callers own the fallback text when generation fails.
type ReplyGenerator interface {
	Generate(ctx context.Context, history []model.Message, userText string) (string, error)
}

type llmReplyGenerator struct {
	client    llm.ChatClient
	maxTokens int
}

func NewReplyGenerator(client llm.ChatClient, maxTokens int) ReplyGenerator {
	return &llmReplyGenerator{client: client, maxTokens: maxTokens}
}

type disabledReplyGenerator struct{}

// NewDisabledReplyGenerator abstains from every reply. The chat service
// substitutes its echo fallback and flags the turn as degraded.
func NewDisabledReplyGenerator() ReplyGenerator {
	return disabledReplyGenerator{}
}

func (disabledReplyGenerator) Generate(context.Context, []model.Message, string) (string, error) {
	return "", nil
}

func (g *llmReplyGenerator) Generate(ctx context.Context, history []model.Message, userText string) (string, error) {
	prompt := fmt.Sprintf(replyTemplate, transcript(history), strings.TrimSpace(userText))
	slog.DebugContext(ctx, "reply prompt built",
		"history_len", len(history),
		"prompt", logger.Truncate(prompt, 200))

	resp, err := g.client.Chat(ctx, llm.ChatRequest{
		Messages:  []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}

// transcript renders messages as one role-labelled line each.
func transcript(history []model.Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		role := "User"
		if m.Sender == model.SenderBot {
			role = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, strings.TrimSpace(m.Text)))
	}
	return strings.Join(lines, "\n")
}
