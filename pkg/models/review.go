package models

import "time"

// Sentiment is the label assigned to a review when it is created.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Sentiments lists every known label in display order.
var Sentiments = []Sentiment{Positive, Negative, Neutral}

func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

func (s Sentiment) String() string { return string(s) }

const (
	createdAtLayout       = "2006-01-02T15:04:05.000000"
	createdAtLayoutSecond = "2006-01-02T15:04:05"
)

// FormatCreatedAt renders t as a naive local ISO-8601 timestamp with
// microsecond precision. The fraction is omitted when it is zero.
func FormatCreatedAt(t time.Time) string {
	t = t.Local()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(createdAtLayoutSecond)
	}
	return t.Format(createdAtLayout)
}

type Review struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	CreatedAt string    `json:"created_at"`
}
