package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"reviewhub/internal/logging"
	"reviewhub/internal/reviews"
	"reviewhub/internal/sentiment"
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
		in     = flag.String("in", "data/reviews.csv", "input CSV path with a text column")
		dbPath = flag.String("db", cfg.Database.Path, "sqlite database path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.MustOpen(database.Config{Path: *dbPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("open input")
	}
	defer f.Close()

	counts, err := importReviews(ctx, db, clockwork.NewRealClock(), f)
	if err != nil {
		log.Fatal().Err(err).Msg("import reviews failed")
	}

	log.Info().
		Str("path", *in).
		Int("positive", counts[models.Positive]).
		Int("negative", counts[models.Negative]).
		Int("neutral", counts[models.Neutral]).
		Msg("imported reviews")
}

// importReviews classifies and stores every row with a non-empty text
// column. All rows go in one transaction; any failure leaves the table
// untouched.
func importReviews(ctx context.Context, db *sql.DB, clock clockwork.Clock, in io.Reader) (map[models.Sentiment]int, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if _, ok := header["text"]; !ok {
		return nil, errors.New("input has no text column")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repo := reviews.NewRepo(tx)
	counts := make(map[models.Sentiment]int, len(models.Sentiments))

	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		text := valueAt(header, row, "text")
		if strings.TrimSpace(text) == "" {
			continue
		}

		label := sentiment.Classify(text)
		if _, err := repo.Insert(ctx, text, label, models.FormatCreatedAt(clock.Now())); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		counts[label]++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return counts, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(strings.TrimPrefix(name, "\ufeff")))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
