package store

import (
	"context"
	"fmt"
)

// schemaStatements create the tables on first start. IF NOT EXISTS keeps
// restarts idempotent without a migration tool.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS question (
		id              BIGINT PRIMARY KEY,
		question_text   TEXT NOT NULL,
		answer_text     TEXT NOT NULL,
		topic           TEXT NOT NULL DEFAULT '',
		score           SMALLINT,
		additional_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		CONSTRAINT question_score_binary CHECK (score IS NULL OR score IN (0, 1))
	)`,
	`CREATE TABLE IF NOT EXISTS category (
		id   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS question_category (
		question_id BIGINT NOT NULL REFERENCES question (id) ON DELETE CASCADE,
		category_id BIGINT NOT NULL REFERENCES category (id) ON DELETE CASCADE,
		PRIMARY KEY (question_id, category_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_question_score ON question (score)`,
}

// DefaultCategories are seeded on an empty database so the first reviewer
// has something to tag with before anyone curates the list.
var DefaultCategories = []string{"Diagnosis", "Treatment", "Prevention", "General"}

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedCategories inserts DefaultCategories when the category table is empty.
// A populated table is left alone, whatever it holds.
func (s *Store) SeedCategories(ctx context.Context) error {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM category`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, name := range DefaultCategories {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO category (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}
