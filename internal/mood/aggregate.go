package mood

import "errors"

// ErrEmptyStream is returned when an aggregate is requested for a
// conversation with no recorded polarities. Callers need to distinguish "no
// data yet" from a genuinely neutral conversation, so no zero is fabricated.
var ErrEmptyStream = errors.New("empty polarity stream")

// Label is the conversation-level sentiment class.
type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

// Sentiment is the conversation-level aggregate: the mean of all polarities
// recorded so far, plus the label derived from its sign.
type Sentiment struct {
	Score float64
	Label Label
}

// Aggregate reduces a polarity snapshot to a single Sentiment. The mean of an
// all-equal series equals that value; otherwise it lies strictly between the
// series minimum and maximum.
func Aggregate(values []float64) (Sentiment, error) {
	if len(values) == 0 {
		return Sentiment{}, ErrEmptyStream
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	return Sentiment{Score: mean, Label: labelFor(mean)}, nil
}

func labelFor(score float64) Label {
	switch {
	case score > 0:
		return LabelPositive
	case score < 0:
		return LabelNegative
	default:
		return LabelNeutral
	}
}
