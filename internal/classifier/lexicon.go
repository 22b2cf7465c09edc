package classifier

import (
	"context"
	"strings"
	"unicode"
)

// Word lists for the offline classifier. Deliberately small: this backend
// exists so development and tests run without an API key, not to compete
// with a real model.
var (
	positiveWords = wordSet(
		"love", "loved", "like", "liked", "great", "good", "awesome",
		"amazing", "excellent", "fantastic", "wonderful", "happy", "glad",
		"thanks", "thank", "perfect", "nice", "cool", "helpful", "best",
		"enjoy", "enjoyed", "works", "solved", "yay",
	)
	negativeWords = wordSet(
		"hate", "hated", "bad", "awful", "terrible", "horrible", "angry",
		"furious", "annoyed", "annoying", "frustrated", "frustrating", "sad",
		"upset", "worse", "worst", "broken", "useless", "fail", "failed",
		"failing", "wrong", "slow", "crash", "crashes", "bug", "buggy",
		"disappointed", "disappointing",
	)
)

// neutralWeight is the phantom neutral mass added to every message so a
// single charged word never reads as total certainty.
const neutralWeight = 0.5

type lexiconClassifier struct{}

// NewLexicon builds the offline wordlist classifier.
func NewLexicon() Classifier {
	return &lexiconClassifier{}
}

func (c *lexiconClassifier) Provider() string { return "lexicon" }

func (c *lexiconClassifier) Classify(_ context.Context, text string) (Result, error) {
	var pos, neg float64
	for _, tok := range tokenize(truncate(text)) {
		if _, ok := positiveWords[tok]; ok {
			pos++
		}
		if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}

	if pos == 0 && neg == 0 {
		return Neutral(), nil
	}

	total := pos + neg + neutralWeight
	return resultFromScores(pos/total, neg/total, neutralWeight/total), nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
