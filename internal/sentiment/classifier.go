// Package sentiment assigns a fixed label to review text by looking for
// known marker substrings.
package sentiment

import (
	"strings"

	"reviewhub/pkg/models"
)

// Markers are scanned in order. The positive list is checked first and
// wins whenever it matches, wherever the negative marker sits in the text.
var (
	PositiveMarkers = []string{"хорош", "люблю", "отлично", "супер"}
	NegativeMarkers = []string{"плохо", "ненавиж", "ужасно", "плохой"}
)

// Classify returns the sentiment label for text. It never fails; text
// without any marker, including the empty string, is neutral.
func Classify(text string) models.Sentiment {
	lower := strings.ToLower(text)

	if containsAny(lower, PositiveMarkers) {
		return models.Positive
	}
	if containsAny(lower, NegativeMarkers) {
		return models.Negative
	}
	return models.Neutral
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
