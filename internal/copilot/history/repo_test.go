package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewRepository(db), mock, db
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS question_history`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Save(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	t.Run("answered question", func(t *testing.T) {
		rec := &domain.QuestionRecord{
			RequestID: "req-1",
			Question:  "What is the vacation policy?",
			Answer:    "You get 20 days.",
			SourceIDs: []string{"C1", "C2"},
			LatencyMs: 812,
		}

		mock.ExpectExec(`INSERT INTO question_history`).
			WithArgs(
				sqlmock.AnyArg(), // id (UUID)
				"req-1",
				"What is the vacation policy?",
				"You get 20 days.",
				nil, // no error
				sqlmock.AnyArg(), // source_ids array
				int64(812),
				sqlmock.AnyArg(), // created_at
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Save(context.Background(), rec))
		assert.NotEmpty(t, rec.ID)
		assert.False(t, rec.CreatedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed question keeps the error text", func(t *testing.T) {
		msg := "No question provided"
		rec := &domain.QuestionRecord{
			ID:       "fixed-id",
			Question: "",
			Answer:   domain.FallbackAnswer,
			Error:    &msg,
		}

		mock.ExpectExec(`INSERT INTO question_history`).
			WithArgs("fixed-id", "", "", domain.FallbackAnswer, msg, sqlmock.AnyArg(), int64(0), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Save(context.Background(), rec))
		assert.Equal(t, "fixed-id", rec.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO question_history`).
			WillReturnError(errors.New("connection reset"))

		err := repo.Save(context.Background(), &domain.QuestionRecord{Question: "q", Answer: "a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save question")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Recent(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "request_id", "question", "answer", "error", "source_ids", "latency_ms", "created_at"}).
		AddRow("id-2", "req-2", "q2", domain.FallbackAnswer, "generation failed", "{}", int64(5), now).
		AddRow("id-1", "req-1", "q1", "a1", nil, "{C1,C2}", int64(10), now.Add(-time.Minute))

	mock.ExpectQuery(`SELECT (.+) FROM question_history`).
		WithArgs(20).
		WillReturnRows(rows)

	recs, err := repo.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "id-2", recs[0].ID)
	require.NotNil(t, recs[0].Error)
	assert.Equal(t, "generation failed", *recs[0].Error)

	assert.Nil(t, recs[1].Error)
	assert.Equal(t, []string{"C1", "C2"}, recs[1].SourceIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PruneOlderThan(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM question_history WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.PruneOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
