// Package langid scores sentences with the probability of being Swiss
// German. The model is opaque to the rest of the pipeline, which only
// relies on the ordering contract: one probability per input sentence.
package langid

import (
	"regexp"
	"strings"
)

// Detector returns one GSW probability in [0, 1] per sentence, in input
// order. An empty input yields an empty output.
type Detector interface {
	Predict(sentences []string) []float64
}

var (
	dropRe       = regexp.MustCompile(`[^\p{L} .,]`)
	multiSpaceRe = regexp.MustCompile(` +`)
)

// Sanitize lowercases a sentence and strips everything but letters, spaces,
// commas and dots, the preprocessing the model was trained with.
func Sanitize(s string) string {
	s = strings.ToLower(s)
	s = dropRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " .", ".")
	return strings.TrimSpace(s)
}

// AlwaysGSW is the fallback detector: every sentence scores 1.0. Useful for
// dry runs and for corpora where filtering happens downstream.
type AlwaysGSW struct{}

func (AlwaysGSW) Predict(sentences []string) []float64 {
	probs := make([]float64, len(sentences))
	for i := range probs {
		probs[i] = 1.0
	}
	return probs
}
