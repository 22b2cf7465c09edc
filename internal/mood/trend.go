package mood

// Trend classification thresholds. Slopes within ±slopeEpsilon per step count
// as flat unless the start-to-end delta is decisive on its own.
const (
	slopeEpsilon = 0.01
	deltaEpsilon = 0.25
)

// TrendLabel describes the overall direction of a conversation's mood.
type TrendLabel string

const (
	TrendIncreasing TrendLabel = "increasing"
	TrendDecreasing TrendLabel = "decreasing"
	TrendStable     TrendLabel = "stable"
	TrendUnknown    TrendLabel = "unknown"
)

// Slope fits a least-squares line through (i, values[i]) and returns its
// slope in polarity units per message. ok is false when fewer than two points
// exist, in which case no direction can be inferred.
func Slope(values []float64) (slope float64, ok bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	meanX := float64(n-1) / 2
	var meanY float64
	for _, v := range values {
		meanY += v
	}
	meanY /= float64(n)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// ClassifyTrend maps a fitted slope and a start-to-end mean delta onto the
// increasing/decreasing/stable taxonomy. hasSlope=false means stable: with no
// fittable line there is nothing to call a direction.
func ClassifyTrend(slope float64, hasSlope bool, delta float64) TrendLabel {
	if !hasSlope {
		return TrendStable
	}
	switch {
	case slope > slopeEpsilon || delta > deltaEpsilon:
		return TrendIncreasing
	case slope < -slopeEpsilon || delta < -deltaEpsilon:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// Wording renders a polarity score as a human label on a five-step scale.
func Wording(score float64) string {
	switch {
	case score <= -0.6:
		return "Strongly Negative"
	case score <= -0.2:
		return "Negative"
	case score < 0.2:
		return "Neutral"
	case score < 0.6:
		return "Positive"
	default:
		return "Strongly Positive"
	}
}
