package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

// Repo reads and writes the reviews table through whatever unit of work
// it was built with: the request's connection, a transaction, or the pool.
type Repo struct {
	DB database.Querier
}

func NewRepo(db database.Querier) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Insert(ctx context.Context, text string, sentiment models.Sentiment, createdAt string) (*models.Review, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO reviews (text, sentiment, created_at)
		VALUES (?, ?, ?)
	`, text, string(sentiment), createdAt)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	review, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, fmt.Errorf("review %d missing after insert", id)
	}
	return review, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, text, sentiment, created_at
		FROM reviews
		WHERE id = ?
	`, id)

	var review models.Review
	if err := scanReview(row, &review); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &review, nil
}

// List returns reviews in insertion order. A non-empty sentiment keeps
// only rows whose label equals it exactly; unknown labels simply match
// nothing.
func (r *Repo) List(ctx context.Context, sentiment string) ([]models.Review, error) {
	query := `SELECT id, text, sentiment, created_at FROM reviews`
	var args []any
	if sentiment != "" {
		query += ` WHERE sentiment = ?`
		args = append(args, sentiment)
	}
	query += ` ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	out := make([]models.Review, 0)
	for rows.Next() {
		var review models.Review
		if err := scanReview(rows, &review); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		out = append(out, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Count returns the number of stored reviews per label. Every known label
// is present in the result, zero when there are no rows for it.
func (r *Repo) Count(ctx context.Context) (map[models.Sentiment]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT sentiment, COUNT(*)
		FROM reviews
		GROUP BY sentiment
	`)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Sentiment]int, len(models.Sentiments))
	for _, s := range models.Sentiments {
		out[s] = 0
	}
	for rows.Next() {
		var (
			s string
			n int
		)
		if err := rows.Scan(&s, &n); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		out[models.Sentiment(s)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(s scanner, review *models.Review) error {
	var sentiment string
	if err := s.Scan(&review.ID, &review.Text, &sentiment, &review.CreatedAt); err != nil {
		return err
	}
	review.Sentiment = models.Sentiment(sentiment)
	return nil
}
