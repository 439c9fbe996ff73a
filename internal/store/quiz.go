package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var quizColumns = []string{
	"id", "sequence", "created_at", "num_requested", "question_count", "text_preview", "quiz",
}

type quizRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *quizRepo) Save(ctx context.Context, rec *QuizRecord) error {
	body, err := json.Marshal(rec.Quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.Sequence = seqNum
	rec.QuestionCount = len(rec.Quiz)

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableQuizzes).
		Columns(quizColumns...).
		Values(rec.ID, rec.Sequence, rec.CreatedAt.UnixMilli(), rec.NumRequested,
			rec.QuestionCount, rec.TextPreview, string(body)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

func (r *quizRepo) List(ctx context.Context, opts QueryOpts) ([]QuizRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(quizColumns...).
		From(entsql.Table(tableQuizzes)).
		OrderBy(entsql.Desc("sequence"))
	query, args := opts.apply(sel).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizRecord
	for rows.Next() {
		rec, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *quizRepo) Get(ctx context.Context, id string) (*QuizRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(quizColumns...).
		From(entsql.Table(tableQuizzes)).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanQuiz(rows)
}

func (r *quizRepo) Delete(ctx context.Context, id string) (bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableQuizzes).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete quiz: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete quiz: %w", err)
	}
	return n > 0, nil
}

func scanQuiz(rows *sql.Rows) (*QuizRecord, error) {
	var (
		rec       QuizRecord
		createdAt int64
		body      string
	)
	err := rows.Scan(&rec.ID, &rec.Sequence, &createdAt, &rec.NumRequested,
		&rec.QuestionCount, &rec.TextPreview, &body)
	if err != nil {
		return nil, fmt.Errorf("scan quiz: %w", err)
	}

	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	if err := json.Unmarshal([]byte(body), &rec.Quiz); err != nil {
		return nil, fmt.Errorf("unmarshal quiz %s: %w", rec.ID, err)
	}
	return &rec, nil
}
