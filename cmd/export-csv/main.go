package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"reviewhub/internal/logging"
	"reviewhub/internal/reviews"
	"reviewhub/pkg/config"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", "text")
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	var (
		out       = flag.String("out", "data/reviews.csv", "output CSV path")
		sentiment = flag.String("sentiment", "", "only export reviews with this sentiment (positive, negative, neutral)")
		dbPath    = flag.String("db", cfg.Database.Path, "sqlite database path")
	)
	flag.Parse()

	if *sentiment != "" && !models.Sentiment(*sentiment).Valid() {
		log.Fatal().Str("sentiment", *sentiment).Msg("sentiment must be one of positive, negative, neutral")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.Config{Path: *dbPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	n, err := exportFile(ctx, reviews.NewRepo(db), *sentiment, *out)
	if err != nil {
		log.Fatal().Err(err).Msg("export reviews failed")
	}

	log.Info().Int("reviews", n).Str("path", *out).Msg("exported reviews")
}

func exportFile(ctx context.Context, repo *reviews.Repo, sentiment, outPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := exportReviews(ctx, repo, sentiment, f)
	if err != nil {
		return n, err
	}
	return n, f.Close()
}

func exportReviews(ctx context.Context, repo *reviews.Repo, sentiment string, out io.Writer) (int, error) {
	items, err := repo.List(ctx, sentiment)
	if err != nil {
		return 0, err
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "text", "sentiment", "created_at"}); err != nil {
		return 0, err
	}

	for _, r := range items {
		if err := w.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.Text,
			string(r.Sentiment),
			r.CreatedAt,
		}); err != nil {
			return 0, err
		}
	}

	w.Flush()
	return len(items), w.Error()
}
