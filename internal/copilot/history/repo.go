package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS question_history (
		id          UUID PRIMARY KEY,
		request_id  TEXT NOT NULL DEFAULT '',
		question    TEXT NOT NULL,
		answer      TEXT NOT NULL,
		error       TEXT,
		source_ids  TEXT[] NOT NULL DEFAULT '{}',
		latency_ms  BIGINT NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS question_history_created_at_idx ON question_history (created_at);
`

// Repository persists answered questions in PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create question_history: %w", err)
	}
	return nil
}

// Save inserts rec, filling in ID and CreatedAt when they are empty.
func (r *Repository) Save(ctx context.Context, rec *domain.QuestionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var errText sql.NullString
	if rec.Error != nil {
		errText = sql.NullString{String: *rec.Error, Valid: true}
	}

	sourceIDs := rec.SourceIDs
	if sourceIDs == nil {
		sourceIDs = []string{}
	}

	query := `
		INSERT INTO question_history (
			id, request_id, question, answer, error, source_ids, latency_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.RequestID,
		rec.Question,
		rec.Answer,
		errText,
		pq.Array(sourceIDs),
		rec.LatencyMs,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

// Recent returns the newest records first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]domain.QuestionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, request_id, question, answer, error, source_ids, latency_ms, created_at
		FROM question_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query question history: %w", err)
	}
	defer rows.Close()

	var out []domain.QuestionRecord
	for rows.Next() {
		var (
			rec     domain.QuestionRecord
			errText sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.Question,
			&rec.Answer,
			&errText,
			pq.Array(&rec.SourceIDs),
			&rec.LatencyMs,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan question history: %w", err)
		}
		if errText.Valid {
			msg := errText.String
			rec.Error = &msg
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate question history: %w", err)
	}
	return out, nil
}

// PruneOlderThan deletes records created before cutoff and reports how many went.
func (r *Repository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM question_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune question history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}
	return n, nil
}
