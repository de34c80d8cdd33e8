package reviews

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"reviewhub/internal/sentiment"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

// Publisher is told about every review once it has been stored.
type Publisher interface {
	ReviewCreated(r models.Review)
}

// Recorder counts stored reviews.
type Recorder interface {
	ReviewCreated(s models.Sentiment)
}

type Handler struct {
	Clock     clockwork.Clock
	Publisher Publisher
	Metrics   Recorder
}

func NewHandler(clock clockwork.Clock, pub Publisher, rec Recorder) *Handler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Handler{Clock: clock, Publisher: pub, Metrics: rec}
}

// RegisterRoutes mounts the handlers on a group that already runs the
// database.Session middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reviews", h.create)
	rg.GET("/reviews", h.list)
	rg.GET("/reviews/stats", h.stats)
}

type createReq struct {
	Text string `json:"text" binding:"required"`
}

type reviewResp struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	CreatedAt string `json:"created_at"`
}

func toResponse(r models.Review) reviewResp {
	return reviewResp{
		ID:        r.ID,
		Text:      r.Text,
		Sentiment: string(r.Sentiment),
		CreatedAt: r.CreatedAt,
	}
}

type statsResp struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

func (h *Handler) repo(c *gin.Context) *Repo {
	q := database.SessionFrom(c)
	if q == nil {
		log.Ctx(c.Request.Context()).Error().Msg("reviews: no database session bound to request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
		return nil
	}
	return NewRepo(q)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationMessage(err)})
		return
	}

	repo := h.repo(c)
	if repo == nil {
		return
	}

	label := sentiment.Classify(req.Text)
	createdAt := models.FormatCreatedAt(h.Clock.Now())

	review, err := repo.Insert(c.Request.Context(), req.Text, label, createdAt)
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("reviews: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	if h.Metrics != nil {
		h.Metrics.ReviewCreated(review.Sentiment)
	}
	if h.Publisher != nil {
		h.Publisher.ReviewCreated(*review)
	}

	log.Ctx(c.Request.Context()).Debug().
		Int64("review_id", review.ID).
		Str("sentiment", review.Sentiment.String()).
		Msg("review created")

	c.JSON(http.StatusOK, toResponse(*review))
}

func (h *Handler) list(c *gin.Context) {
	repo := h.repo(c)
	if repo == nil {
		return
	}

	items, err := repo.List(c.Request.Context(), c.Query("sentiment"))
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("reviews: list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	out := make([]reviewResp, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) stats(c *gin.Context) {
	repo := h.repo(c)
	if repo == nil {
		return
	}

	counts, err := repo.Count(c.Request.Context())
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("reviews: stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}

	resp := statsResp{
		Positive: counts[models.Positive],
		Negative: counts[models.Negative],
		Neutral:  counts[models.Neutral],
	}
	resp.Total = resp.Positive + resp.Negative + resp.Neutral
	c.JSON(http.StatusOK, resp)
}

func validationMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return typeErr.Field + " must be a " + typeErr.Type.String()
		}
		return "request body must be a JSON object"
	case errors.As(err, &verrs):
		return "text is required"
	default:
		return "invalid json"
	}
}
