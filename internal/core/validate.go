package core

// validate.go runs the structural checks on an uploaded table before any
// database mutation: required columns, duplicate question ids, and empty or
// malformed required fields. Each check reports every offending column, id,
// or row, not just the first, so a reviewer can fix the file in one pass.

import (
	"fmt"
	"sort"
	"strings"
)

// Column names the ingestion schema recognizes.
const (
	ColQuestionID   = "question_id"
	ColQuestionText = "question_text"
	ColAnswerText   = "answer_text"
	ColTopic        = "topic"
)

// RequiredColumns must all be present in an uploaded file.
var RequiredColumns = []string{ColQuestionID, ColQuestionText, ColAnswerText}

// DuplicateID describes one question id that appears on more than one row.
// Rows are 1-based display positions (header row included), sorted ascending.
type DuplicateID struct {
	ID   int64 `json:"question_id"`
	Rows []int `json:"rows"`
}

// ValidationError carries everything the client needs to fix a rejected
// upload. Only the fields for the failed check are populated.
type ValidationError struct {
	MissingColumns []string      `json:"missing_columns,omitempty"`
	Duplicates     []DuplicateID `json:"duplicate_ids,omitempty"`
	EmptyRows      []int         `json:"empty_rows,omitempty"`
	InvalidIDRows  []int         `json:"invalid_id_rows,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.MissingColumns) > 0 {
		parts = append(parts, fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", ")))
	}
	for _, d := range e.Duplicates {
		parts = append(parts, fmt.Sprintf("duplicate question_id %d in rows %s", d.ID, joinInts(d.Rows)))
	}
	if len(e.EmptyRows) > 0 {
		parts = append(parts, fmt.Sprintf("empty required fields in rows %s", joinInts(e.EmptyRows)))
	}
	if len(e.InvalidIDRows) > 0 {
		parts = append(parts, fmt.Sprintf("question_id is not a positive integer in rows %s", joinInts(e.InvalidIDRows)))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// ValidateTable runs the ingestion checks in order: schema, duplicates,
// completeness. It returns nil when the table is loadable. The checks short
// circuit per step, so a schema failure reports only missing columns and a
// duplicate failure reports only duplicates.
func ValidateTable(t *Table) *ValidationError {
	var missing []string
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{MissingColumns: missing}
	}

	if dups := findDuplicates(t); len(dups) > 0 {
		return &ValidationError{Duplicates: dups}
	}

	emptyRows, invalidRows := findIncompleteRows(t)
	if len(emptyRows) > 0 || len(invalidRows) > 0 {
		return &ValidationError{EmptyRows: emptyRows, InvalidIDRows: invalidRows}
	}

	return nil
}

// findDuplicates groups rows by question_id and returns every id that occurs
// more than once, each with all of its display rows. Rows whose id cannot be
// parsed are skipped here; the completeness check reports them.
func findDuplicates(t *Table) []DuplicateID {
	rowsByID := make(map[int64][]int)
	for i, row := range t.Rows {
		id, err := row.Cell(ColQuestionID).Int64()
		if err != nil {
			continue
		}
		rowsByID[id] = append(rowsByID[id], displayRow(i))
	}

	var dups []DuplicateID
	for id, rows := range rowsByID {
		if len(rows) < 2 {
			continue
		}
		sort.Ints(rows)
		dups = append(dups, DuplicateID{ID: id, Rows: rows})
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].ID < dups[j].ID })
	return dups
}

// findIncompleteRows returns, in row order, the display positions of rows
// with an empty required field and of rows whose question_id is present but
// not a positive integer.
func findIncompleteRows(t *Table) (emptyRows, invalidRows []int) {
	for i, row := range t.Rows {
		empty := false
		for _, col := range RequiredColumns {
			if row.Cell(col).IsEmpty() {
				empty = true
				break
			}
		}
		if empty {
			emptyRows = append(emptyRows, displayRow(i))
			continue
		}
		if id, err := row.Cell(ColQuestionID).Int64(); err != nil || id <= 0 {
			invalidRows = append(invalidRows, displayRow(i))
		}
	}
	return emptyRows, invalidRows
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
