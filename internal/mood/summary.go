package mood

import (
	"fmt"
	"math"
	"strings"
)

// Volatility bands over the standard deviation of the raw polarities. The
// domain is [-1, +1], so a deviation past 0.4 means the conversation swings
// across sentiment classes routinely.
const (
	volatilityLow  = 0.15
	volatilityHigh = 0.40
)

// flatBand is how close the first and last smoothed values must be for the
// arc to read as flat.
const flatBand = 0.1

// insufficientData is the fixed headline for streams too short to describe.
// Summaries are advisory and must never fail a conversation view.
const insufficientData = "Not enough messages to describe a mood trend yet."

type arcClass int

const (
	arcFlat arcClass = iota
	arcRising
	arcFalling
)

type volatilityClass int

const (
	volLow volatilityClass = iota
	volModerate
	volHigh
)

// headlines indexed by [arcClass][volatilityClass]. The %s slot in the flat
// low-volatility entry takes the lowercased sentiment label.
var headlines = [3][3]string{
	arcFlat: {
		volLow:      "Mood holds steady in %s territory",
		volModerate: "Mood wavers around a steady baseline",
		volHigh:     "Highly fluctuating emotional pattern with no overall direction",
	},
	arcRising: {
		volLow:      "Mood improves steadily over time",
		volModerate: "Mood improves over time despite some back-and-forth",
		volHigh:     "Mood climbs overall through heavy swings",
	},
	arcFalling: {
		volLow:      "Mood declines steadily over time",
		volModerate: "Mood declines over time despite some back-and-forth",
		volHigh:     "Mood sinks overall through heavy swings",
	},
}

// Summarize renders the emotional arc of one conversation as a single
// sentence. The inputs are classified onto three fixed axes (arc of the
// smoothed curve, volatility of the raw values, strongest detected shift) and
// dispatched through a template table, so every variant stays reachable and
// directly testable.
//
// values and curve must be the same series the shifts were detected on; a
// length mismatch is a programming error and panics rather than attributing a
// shift to the wrong message.
func Summarize(values, curve []float64, shifts []Shift, sentiment Sentiment) string {
	if len(values) != len(curve) {
		panic(fmt.Sprintf("mood: summarize over %d raw values but %d smoothed", len(values), len(curve)))
	}
	if len(values) < 2 {
		return insufficientData
	}

	arc := classifyArc(curve)
	vol := classifyVolatility(values)

	head := headlines[arc][vol]
	if strings.Contains(head, "%s") {
		head = fmt.Sprintf(head, strings.ToLower(string(sentiment.Label)))
	}

	top, ok := strongestShift(shifts)
	if !ok {
		return head + "."
	}
	word := "lift"
	if top.Direction == DirectionFalling {
		word = "dip"
	}
	// Shift indices are curve positions; messages are numbered from 1.
	return fmt.Sprintf("%s, with a sharp %s around message %d.", head, word, top.Index+1)
}

func classifyArc(curve []float64) arcClass {
	delta := curve[len(curve)-1] - curve[0]
	switch {
	case delta > flatBand:
		return arcRising
	case delta < -flatBand:
		return arcFalling
	default:
		return arcFlat
	}
}

func classifyVolatility(values []float64) volatilityClass {
	sd := stddev(values)
	switch {
	case sd < volatilityLow:
		return volLow
	case sd < volatilityHigh:
		return volModerate
	default:
		return volHigh
	}
}

func stddev(values []float64) float64 {
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// strongestShift picks the shift with the largest absolute magnitude. Earlier
// events win ties so the choice is stable across runs.
func strongestShift(shifts []Shift) (Shift, bool) {
	if len(shifts) == 0 {
		return Shift{}, false
	}
	top := shifts[0]
	for _, s := range shifts[1:] {
		if math.Abs(s.Magnitude) > math.Abs(top.Magnitude) {
			top = s
		}
	}
	return top, true
}
