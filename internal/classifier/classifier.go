// Package classifier turns raw message text into a sentiment verdict: a
// label, a confidence, and a signed polarity in [-1, +1] that feeds the mood
// analytics pipeline.
package classifier

import (
	"context"
	"math"
)

// maxTextLen caps what is sent to a classifier backend. Longer messages are
// truncated rather than rejected; the opening of a message carries its tone.
const maxTextLen = 512

// Result is one classifier verdict.
type Result struct {
	Label      string             // POSITIVE, NEGATIVE, NEUTRAL
	Confidence float64            // top-class probability in [0, 1]
	Polarity   float64            // signed score in [-1, +1]
	Scores     map[string]float64 // normalized per-class probabilities
}

// Classifier scores the emotional tone of one message.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
	Provider() string
}

// Neutral is the fallback verdict used when classification fails. Chat must
// keep flowing, so callers store this instead of propagating the error.
func Neutral() Result {
	return Result{
		Label:      "NEUTRAL",
		Confidence: 0.5,
		Polarity:   0,
		Scores:     map[string]float64{"positive": 0.25, "negative": 0.25, "neutral": 0.5},
	}
}

func truncate(text string) string {
	if len(text) <= maxTextLen {
		return text
	}
	return text[:maxTextLen]
}

// resultFromScores normalizes raw class scores into a verdict. Negative or
// NaN inputs are clamped to zero; an all-zero set degrades to the neutral
// fallback instead of dividing by zero.
func resultFromScores(positive, negative, neutral float64) Result {
	positive = clampScore(positive)
	negative = clampScore(negative)
	neutral = clampScore(neutral)

	sum := positive + negative + neutral
	if sum <= 0 {
		return Neutral()
	}

	positive /= sum
	negative /= sum
	neutral /= sum

	label, confidence := "NEUTRAL", neutral
	if positive > confidence {
		label, confidence = "POSITIVE", positive
	}
	if negative > confidence {
		label, confidence = "NEGATIVE", negative
	}

	return Result{
		Label:      label,
		Confidence: confidence,
		Polarity:   positive - negative,
		Scores:     map[string]float64{"positive": positive, "negative": negative, "neutral": neutral},
	}
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
