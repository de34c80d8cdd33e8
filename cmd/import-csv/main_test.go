package main

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/reviews"
	"reviewhub/pkg/database"
	"reviewhub/pkg/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "reviews.db")})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestImportReviews(t *testing.T) {
	db := newTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 4, 5, 6, 7, 0, time.Local))

	in := "\ufeffID,Text\n1,Я люблю этот товар\n2,Это было ужасно\n3,\n4,Обычный день\n5,Супер\n"
	counts, err := importReviews(context.Background(), db, clock, strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 2, counts[models.Positive])
	assert.Equal(t, 1, counts[models.Negative])
	assert.Equal(t, 1, counts[models.Neutral])

	all, err := reviews.NewRepo(db).List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Я люблю этот товар", all[0].Text)
	assert.Equal(t, models.Positive, all[0].Sentiment)
	assert.Equal(t, "2024-03-04T05:06:07", all[0].CreatedAt)
}

func TestImportReviews_MissingTextColumn(t *testing.T) {
	db := newTestDB(t)
	_, err := importReviews(context.Background(), db, clockwork.NewFakeClock(), strings.NewReader("id,body\n1,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text column")
}

func TestImportReviews_BadRowRollsBack(t *testing.T) {
	db := newTestDB(t)
	in := "text\nсупер\n\"unterminated\n"

	_, err := importReviews(context.Background(), db, clockwork.NewFakeClock(), strings.NewReader(in))
	require.Error(t, err)

	all, err := reviews.NewRepo(db).List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
