package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moodline.app/pulse/common/llm"
)

const systemPrompt = "You are a sentiment rater for a chat product. " +
	"Score the emotional tone of the user's message. " +
	"Return probabilities for positive, negative, and neutral that sum to 1."

// verdictSchema is the structured-output contract for sentiment scoring.
type verdictSchema struct {
	Positive float64 `json:"positive" jsonschema_description:"Probability the message is positive"`
	Negative float64 `json:"negative" jsonschema_description:"Probability the message is negative"`
	Neutral  float64 `json:"neutral" jsonschema_description:"Probability the message is neutral"`
}

type openaiClassifier struct {
	client llm.Client
}

// NewOpenAI builds a Classifier on the structured-output LLM client.
func NewOpenAI(client llm.Client) Classifier {
	return &openaiClassifier{client: client}
}

func (c *openaiClassifier) Provider() string { return "openai" }

// classifyAttempts bounds retries on transient failures. Classification runs
// inline with the chat turn, so it stays small; exhausting it leaves the
// caller to store the neutral fallback.
const classifyAttempts = 2

func (c *openaiClassifier) Classify(ctx context.Context, text string) (Result, error) {
	var verdict verdictSchema

	var err error
	for attempt := 1; attempt <= classifyAttempts; attempt++ {
		_, err = c.client.Chat(ctx, llm.Request{
			SystemPrompt: systemPrompt,
			UserPrompt:   truncate(text),
			SchemaName:   "sentiment_verdict",
			Schema:       llm.GenerateSchema[verdictSchema](),
			MaxTokens:    200,
			Temperature:  llm.Temp(0),
		}, &verdict)
		if err == nil {
			return resultFromScores(verdict.Positive, verdict.Negative, verdict.Neutral), nil
		}
		if !llm.IsRetryable(ctx, err) || attempt == classifyAttempts {
			break
		}
		slog.WarnContext(ctx, "classification retry", "attempt", attempt, "error", err)
		time.Sleep(300 * time.Millisecond)
	}

	return Result{}, fmt.Errorf("classify: %w", err)
}
