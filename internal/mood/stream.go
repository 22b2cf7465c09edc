// Package mood implements the conversation mood-trend analytics: polarity
// streams, conversation-level aggregation, moving-average smoothing, shift
// detection, and rule-based summary text. Everything here is a pure function
// over an in-memory snapshot (no I/O, no clock, no randomness), so derived
// values can be recomputed from the message history at any time.
package mood

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPolarity is returned when a polarity value lies outside [-1, +1].
var ErrInvalidPolarity = errors.New("polarity out of range")

// Stream is the append-only sequence of per-message polarity values for one
// conversation, in chronological order. It is the single source of truth the
// rest of the pipeline reads from; sentiment, trend curves, shifts, and
// summaries are all derived from a snapshot of it.
//
// A Stream is not safe for concurrent use. Callers process one conversation
// turn end-to-end before starting the next, so no locking is done here.
type Stream struct {
	values []float64
}

// NewStream returns an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// StreamOf builds a stream from stored values, validating each one. Used when
// replaying a conversation's persisted polarities.
func StreamOf(values ...float64) (*Stream, error) {
	s := NewStream()
	for _, v := range values {
		if err := s.Append(v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds one polarity value to the end of the stream. Values outside
// [-1, +1] are rejected with ErrInvalidPolarity, never clamped, so bad
// classifier output is caught at the boundary instead of skewing analytics.
func (s *Stream) Append(v float64) error {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidPolarity, v)
	}
	s.values = append(s.values, v)
	return nil
}

// Snapshot returns a copy of the recorded values in append order. Mutating
// the returned slice does not affect the stream.
func (s *Stream) Snapshot() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of recorded values.
func (s *Stream) Len() int {
	return len(s.values)
}
