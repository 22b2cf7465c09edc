package mood

import (
	"fmt"
	"math"
	"strings"
)

// Options configure a trend report build.
type Options struct {
	// Window is the moving-average window. Larger windows flatten local noise
	// more aggressively, trading responsiveness for stability.
	Window int
	// ShiftThreshold is the smoothed-curve delta past which a shift event is
	// reported. Higher values suppress minor fluctuations.
	ShiftThreshold float64
}

// DefaultOptions returns the standard analysis parameters: a window of 3 and
// a 0.5 jump threshold.
func DefaultOptions() Options {
	return Options{Window: 3, ShiftThreshold: 0.5}
}

// MarkerReason explains why an index was flagged as a turning point.
type MarkerReason string

const (
	// ReasonCrossedZero marks the smoothed curve changing sign.
	ReasonCrossedZero MarkerReason = "crossed_zero"
	// ReasonLargeJump marks a step of at least the shift threshold. Unlike
	// shift detection this bound is inclusive.
	ReasonLargeJump MarkerReason = "large_jump"
)

// Marker is a turning point on the smoothed curve. One index can carry both
// reasons, as two markers.
type Marker struct {
	Index    int
	Polarity float64
	Reason   MarkerReason
}

// Report is the full analytics output for one conversation snapshot.
type Report struct {
	Values   []float64
	Smoothed []float64

	Sentiment Sentiment

	// Slope is nil when the series is too short to fit a line.
	Slope     *float64
	StartMean float64
	EndMean   float64
	Delta     float64
	Trend     TrendLabel

	Shifts  []Shift
	Markers []Marker

	// Headline is the single-sentence arc description; Summary appends the
	// quantitative trend sentence and marker digest. SummaryLabel words the
	// end-of-conversation mean.
	Headline     string
	Summary      string
	SummaryLabel string
}

// BuildReport runs the whole pipeline over one polarity snapshot: smoothing,
// aggregation, shift detection, slope fitting, trend labelling, turning-point
// markers, and summary text. The snapshot is used as-is; the caller owns
// ordering (chronological) and validation (values already within [-1, +1]).
func BuildReport(values []float64, opts Options) (*Report, error) {
	if len(values) == 0 {
		return nil, ErrEmptyStream
	}

	smoothed, err := Smooth(values, opts.Window)
	if err != nil {
		return nil, err
	}
	sentiment, err := Aggregate(values)
	if err != nil {
		return nil, err
	}
	shifts, err := DetectShifts(smoothed, opts.ShiftThreshold)
	if err != nil {
		return nil, err
	}

	var slopePtr *float64
	slope, hasSlope := Slope(smoothed)
	if hasSlope {
		slopePtr = &slope
	}

	startMean := edgeMean(smoothed, opts.Window, false)
	endMean := edgeMean(smoothed, opts.Window, true)
	delta := endMean - startMean
	trend := ClassifyTrend(slope, hasSlope, delta)

	markers := findMarkers(smoothed, opts.ShiftThreshold)
	headline := Summarize(values, smoothed, shifts, sentiment)

	return &Report{
		Values:       values,
		Smoothed:     smoothed,
		Sentiment:    sentiment,
		Slope:        slopePtr,
		StartMean:    startMean,
		EndMean:      endMean,
		Delta:        delta,
		Trend:        trend,
		Shifts:       shifts,
		Markers:      markers,
		Headline:     headline,
		Summary:      composeSummary(headline, trend, startMean, endMean, delta, markers),
		SummaryLabel: Wording(endMean),
	}, nil
}

// edgeMean averages the leading (or trailing) window-sized slice of the
// curve, falling back to whatever is available for short series.
func edgeMean(curve []float64, window int, tail bool) float64 {
	n := len(curve)
	w := window
	if w > n {
		w = n
	}
	slice := curve[:w]
	if tail {
		slice = curve[n-w:]
	}
	var sum float64
	for _, v := range slice {
		sum += v
	}
	return sum / float64(w)
}

// findMarkers flags sign changes and large steps on the smoothed curve. Both
// checks run on every consecutive pair, so a single step can produce two
// markers.
func findMarkers(curve []float64, jump float64) []Marker {
	var markers []Marker
	for i := 1; i < len(curve); i++ {
		prev, cur := curve[i-1], curve[i]
		if (prev <= 0 && cur > 0) || (prev >= 0 && cur < 0) {
			markers = append(markers, Marker{Index: i, Polarity: cur, Reason: ReasonCrossedZero})
		}
		if math.Abs(cur-prev) >= jump {
			markers = append(markers, Marker{Index: i, Polarity: cur, Reason: ReasonLargeJump})
		}
	}
	return markers
}

func composeSummary(headline string, trend TrendLabel, startMean, endMean, delta float64, markers []Marker) string {
	s := fmt.Sprintf("%s Conversation mood is %s. Start mean=%+.2f, end mean=%+.2f, delta=%+.2f.",
		headline, trend, startMean, endMean, delta)
	if len(markers) == 0 {
		return s
	}
	limit := len(markers)
	if limit > 3 {
		limit = 3
	}
	reasons := make([]string, 0, limit)
	for _, m := range markers[:limit] {
		reasons = append(reasons, string(m.Reason))
	}
	return s + fmt.Sprintf(" Detected %d notable shift(s) (examples: %s).", len(markers), strings.Join(reasons, ", "))
}
