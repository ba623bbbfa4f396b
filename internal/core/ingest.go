package core

import (
	"context"
	"fmt"
	"sync"
)

// Loader performs the all-or-nothing replacement of the question set from a
// validated upload. Replacements are serialized with a mutex: two concurrent
// uploads racing through clear-and-insert would otherwise interleave, and the
// store transaction alone cannot order them.
type Loader struct {
	store Store

	mu sync.Mutex
}

// NewLoader returns a Loader over the given store.
func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Load validates the table and, if every check passes, replaces the stored
// question and category sets in one transaction. It returns the number of
// questions loaded. Validation failures come back as *ValidationError and
// happen strictly before any mutation; there is no partial-success outcome.
func (l *Loader) Load(ctx context.Context, t *Table) (int, error) {
	if verr := ValidateTable(t); verr != nil {
		return 0, verr
	}

	questions, err := buildQuestions(t)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.ReplaceQuestions(ctx, questions); err != nil {
		return 0, fmt.Errorf("replace questions: %w", err)
	}
	return len(questions), nil
}

// buildQuestions converts validated rows to Question records. The three
// required columns are coerced to their storage types; topic comes from the
// optional topic column (empty when absent). Every column other than the
// required three lands in AdditionalData, topic included, with dates
// rendered via DateLayout.
func buildQuestions(t *Table) ([]Question, error) {
	required := map[string]bool{
		ColQuestionID:   true,
		ColQuestionText: true,
		ColAnswerText:   true,
	}

	out := make([]Question, 0, len(t.Rows))
	for i, row := range t.Rows {
		id, err := row.Cell(ColQuestionID).Int64()
		if err != nil {
			// ValidateTable already rejected these; this guards direct callers.
			return nil, fmt.Errorf("row %d: question_id: %w", displayRow(i), err)
		}

		q := Question{
			ID:             id,
			QuestionText:   row.Cell(ColQuestionText).Text(),
			AnswerText:     row.Cell(ColAnswerText).Text(),
			Topic:          row.Cell(ColTopic).Text(),
			AdditionalData: make(map[string]any),
		}
		for _, col := range t.Columns {
			if required[col] {
				continue
			}
			q.AdditionalData[col] = row.Cell(col).Scalar()
		}
		out = append(out, q)
	}
	return out, nil
}
