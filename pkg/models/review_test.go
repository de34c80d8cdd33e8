package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCreatedAt(t *testing.T) {
	assert.Equal(t, "2024-05-01T12:30:45.123456",
		FormatCreatedAt(time.Date(2024, 5, 1, 12, 30, 45, 123456789, time.Local)))
	assert.Equal(t, "2024-05-01T12:30:45.000001",
		FormatCreatedAt(time.Date(2024, 5, 1, 12, 30, 45, 1000, time.Local)))
	assert.Equal(t, "2024-05-01T12:30:45",
		FormatCreatedAt(time.Date(2024, 5, 1, 12, 30, 45, 999, time.Local)))
}

func TestSentimentValid(t *testing.T) {
	for _, s := range Sentiments {
		assert.True(t, s.Valid())
	}
	assert.False(t, Sentiment("Positive").Valid())
	assert.False(t, Sentiment("").Valid())
}
