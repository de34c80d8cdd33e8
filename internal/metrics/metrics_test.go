package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"reviewhub/pkg/models"
)

func TestReviewCreated(t *testing.T) {
	m := New()

	m.ReviewCreated(models.Positive)
	m.ReviewCreated(models.Positive)
	m.ReviewCreated(models.Neutral)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReviewsCreated.WithLabelValues("positive")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ReviewsCreated.WithLabelValues("negative")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsCreated.WithLabelValues("neutral")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReviewCreated(models.Negative)
		m.FeedClientsChanged(3)
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/reviews", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reviews", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/reviews", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reviewhub_http_requests_total")
	assert.Contains(t, rec.Body.String(), `reviewhub_reviews_created_total{sentiment="neutral"} 0`)
}
