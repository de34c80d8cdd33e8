package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewhub/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Sentiment
	}{
		{"positive marker", "Я люблю этот товар", models.Positive},
		{"positive stem", "Очень хороший сервис", models.Positive},
		{"upper case", "СУПЕР!!!", models.Positive},
		{"mixed case", "ОтЛиЧнО", models.Positive},
		{"negative only", "Это было ужасно и я ненавижу это", models.Negative},
		{"negative stem", "Плохой товар", models.Negative},
		{"neutral", "Обычный день", models.Neutral},
		{"empty", "", models.Neutral},
		{"latin text", "I love it, super", models.Neutral},
		{"positive wins over earlier negative", "Ужасно долго ждал, но в итоге отлично", models.Positive},
		{"positive wins over later negative", "Хорошо, но местами плохо", models.Positive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassify_EveryMarker(t *testing.T) {
	for _, m := range PositiveMarkers {
		assert.Equal(t, models.Positive, Classify("текст "+m+" текст"), m)
	}
	for _, m := range NegativeMarkers {
		assert.Equal(t, models.Negative, Classify("текст "+m+" текст"), m)
	}
}

func TestClassify_AlwaysKnownLabel(t *testing.T) {
	for _, text := range []string{"", " ", "123", "плохо хорошо", "\u0000"} {
		assert.True(t, Classify(text).Valid(), "text %q", text)
	}
}
