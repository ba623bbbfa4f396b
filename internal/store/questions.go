package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"medeval/internal/core"
)

// questionColumns is the select list shared by the list and get queries.
// category ids are aggregated in the same query so projections never need a
// second round trip per question.
const questionColumns = `
	q.id, q.question_text, q.answer_text, q.topic, q.score, q.additional_data,
	COALESCE(array_agg(qc.category_id ORDER BY qc.category_id)
		FILTER (WHERE qc.category_id IS NOT NULL), '{}') AS category_ids`

// scoreFilter returns the WHERE fragment for a filter, or "" for all rows.
func scoreFilter(filter core.Filter) string {
	switch filter {
	case core.FilterEvaluated:
		return "q.score IS NOT NULL"
	case core.FilterUnevaluated:
		return "q.score IS NULL"
	default:
		return ""
	}
}

// ReplaceQuestions clears the question set and loads the given questions in
// a single transaction. Category assignments go with the old questions; the
// category list itself survives.
func (s *Store) ReplaceQuestions(ctx context.Context, questions []core.Question) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM question_category`,
		`DELETE FROM question`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
	}

	rows := make([][]any, 0, len(questions))
	for _, q := range questions {
		data, err := json.Marshal(q.AdditionalData)
		if err != nil {
			return fmt.Errorf("marshal additional_data for question %d: %w", q.ID, err)
		}
		rows = append(rows, []any{q.ID, q.QuestionText, q.AnswerText, q.Topic, q.Score, data})
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"question"},
		[]string{"id", "question_text", "answer_text", "topic", "score", "additional_data"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copy questions: %w", err)
	}

	return tx.Commit(ctx)
}

// ListQuestions returns questions matching the filter ordered by ascending
// id. limit <= 0 returns the whole set.
func (s *Store) ListQuestions(ctx context.Context, filter core.Filter, limit, offset int) ([]core.Question, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT` + questionColumns + `
		FROM question q
		LEFT JOIN question_category qc ON qc.question_id = q.id`)

	args := []any{}
	if cond := scoreFilter(filter); cond != "" {
		sb.WriteString(" WHERE " + cond)
	}
	sb.WriteString(" GROUP BY q.id ORDER BY q.id")
	if limit > 0 {
		args = append(args, limit, offset)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]core.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// CountQuestions returns the number of questions matching the filter.
func (s *Store) CountQuestions(ctx context.Context, filter core.Filter) (int64, error) {
	query := `SELECT COUNT(*) FROM question q`
	if cond := scoreFilter(filter); cond != "" {
		query += " WHERE " + cond
	}
	var count int64
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return count, nil
}

// GetQuestion returns one question by id, or core.ErrNotFound.
func (s *Store) GetQuestion(ctx context.Context, id int64) (*core.Question, error) {
	return getQuestion(ctx, s.pool, id)
}

// getQuestion runs the single-question query against a pool or an open
// transaction, so updates can read their own uncommitted writes.
func getQuestion(ctx context.Context, db DBTX, id int64) (*core.Question, error) {
	row := db.QueryRow(ctx, `SELECT`+questionColumns+`
		FROM question q
		LEFT JOIN question_category qc ON qc.question_id = q.id
		WHERE q.id = $1
		GROUP BY q.id`, id)

	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// UpdateAnnotations applies a score and/or category change to one question
// in a single transaction. Category ids with no matching category row are
// silently dropped via the INSERT ... SELECT join.
func (s *Store) UpdateAnnotations(ctx context.Context, id int64, change core.AnnotationChange) (*core.Question, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM question WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check question %d: %w", id, err)
	}
	if !exists {
		return nil, core.ErrNotFound
	}

	if change.SetScore {
		if _, err := tx.Exec(ctx,
			`UPDATE question SET score = $1 WHERE id = $2`, change.Score, id); err != nil {
			return nil, fmt.Errorf("update score: %w", err)
		}
	}

	if change.SetCategories {
		if _, err := tx.Exec(ctx,
			`DELETE FROM question_category WHERE question_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear categories: %w", err)
		}
		if len(change.CategoryIDs) > 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO question_category (question_id, category_id)
				SELECT $1, c.id FROM category c WHERE c.id = ANY($2)
				ON CONFLICT DO NOTHING`, id, change.CategoryIDs); err != nil {
				return nil, fmt.Errorf("assign categories: %w", err)
			}
		}
	}

	q, err := getQuestion(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return q, nil
}

// scanQuestion reads one row in questionColumns order.
func scanQuestion(row pgx.Row) (*core.Question, error) {
	var (
		q    core.Question
		data []byte
	)
	if err := row.Scan(&q.ID, &q.QuestionText, &q.AnswerText, &q.Topic,
		&q.Score, &data, &q.CategoryIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &q.AdditionalData); err != nil {
			return nil, fmt.Errorf("decode additional_data for question %d: %w", q.ID, err)
		}
	}
	return &q, nil
}
