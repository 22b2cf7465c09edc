package llm

import (
	"context"
	"fmt"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds LLM client configuration.
type Config struct {
	Provider string // "openai" or "anthropic"
	APIKey   string // Required: API key for the provider
	BaseURL  string // Optional: custom API endpoint
	Model    string // Model name (e.g., "gpt-4o-mini", "claude-sonnet-4-5-20250514")
}

// ChatClient supports free-form chat completions for reply generation.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Model() string
}

// ChatRequest contains the messages for one completion turn.
type ChatRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

// Message represents a conversation message.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string // Text content
}

// ChatResponse contains the LLM's reply.
type ChatResponse struct {
	Content          string
	FinishReason     string // "stop", "length"
	PromptTokens     int
	CompletionTokens int
}

// NewChatClient creates a ChatClient for free-form completions.
// It selects the appropriate provider based on cfg.Provider ("openai" or
// "anthropic"). Defaults to OpenAI if no provider is specified.
func NewChatClient(cfg Config) (ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAIChatClient(cfg)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
