package mood

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThreshold is returned for shift thresholds that are not a
// positive number.
var ErrInvalidThreshold = errors.New("invalid shift threshold")

// Direction indicates which way a detected shift moved.
type Direction string

const (
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
)

// Shift flags an abrupt change between two consecutive points of a trend
// curve. Index is the later of the two points; Magnitude is the signed delta
// that cleared the threshold.
type Shift struct {
	Index     int
	Direction Direction
	Magnitude float64
}

// DetectShifts walks consecutive pairs of the curve and emits a Shift wherever
// the absolute delta strictly exceeds threshold. Detection is per-step: a
// sustained ramp that keeps clearing the threshold yields one event per
// qualifying step, not one per episode. Rerunning over the same curve returns
// identical events.
func DetectShifts(curve []float64, threshold float64) ([]Shift, error) {
	if math.IsNaN(threshold) || threshold <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	var shifts []Shift
	for i := 1; i < len(curve); i++ {
		delta := curve[i] - curve[i-1]
		if math.Abs(delta) <= threshold {
			continue
		}
		dir := DirectionRising
		if delta < 0 {
			dir = DirectionFalling
		}
		shifts = append(shifts, Shift{Index: i, Direction: dir, Magnitude: delta})
	}
	return shifts, nil
}
