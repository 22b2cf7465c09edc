package mood

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned for smoothing windows smaller than 1.
var ErrInvalidWindow = errors.New("invalid smoothing window")

// Smooth applies a simple moving average of the given window size and returns
// the trend curve. At index i the average covers values[max(0, i-window+1)..i]:
// early positions with fewer than window points average over the available
// prefix only, so the curve has the same length and index alignment as the
// input and no values are fabricated.
func Smooth(values []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, v := range values[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-start)
	}
	return out, nil
}
