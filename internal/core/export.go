package core

// export.go assembles the rows and summary statistics for CSV and Excel
// exports. Byte-level encoding lives elsewhere (encoding/csv in the web
// layer, excelize in internal/sheet); this file only decides what goes in
// each row.

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Score labels shown to reviewers in exports.
const (
	ScoreLabelAgree       = "agree"
	ScoreLabelDisagree    = "disagree"
	ScoreLabelUnevaluated = "not evaluated"
)

// ScoreLabel returns the human-readable label for a tri-state score.
func ScoreLabel(score *int16) string {
	switch {
	case score == nil:
		return ScoreLabelUnevaluated
	case *score == 1:
		return ScoreLabelAgree
	default:
		return ScoreLabelDisagree
	}
}

// ExportData is a rendered export: a header, one row per question, and the
// tallies for the Excel summary sheet.
type ExportData struct {
	Filter  Filter
	Columns []string
	Rows    [][]string
	Stats   ExportStats
}

// ExportStats tallies scores across the exported set.
type ExportStats struct {
	Total       int
	Agreed      int
	Disagreed   int
	Unevaluated int
}

// EvaluatedPercent formats the share of evaluated questions, e.g. "83.3%".
func (s ExportStats) EvaluatedPercent() string {
	if s.Total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(s.Total-s.Unevaluated)/float64(s.Total)*100)
}

// exportColumns are the fixed leading columns; flattened additional_data
// keys follow in sorted order.
var exportColumns = []string{
	"question_id", "question_text", "answer_text",
	"score", "score_text", "categories",
}

// Exporter builds export tables for the filtered question set.
type Exporter struct {
	store Store
}

// NewExporter returns an Exporter over the given store.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// Build fetches the full filtered set, unpaginated, and renders one row per
// question with additional_data keys flattened into extra columns.
func (e *Exporter) Build(ctx context.Context, filter Filter) (*ExportData, error) {
	questions, err := e.store.ListQuestions(ctx, filter, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	extraCols := additionalKeys(questions)
	columns := append(append([]string{}, exportColumns...), extraCols...)

	data := &ExportData{
		Filter:  filter,
		Columns: columns,
		Rows:    make([][]string, 0, len(questions)),
	}
	for _, q := range questions {
		row := []string{
			strconv.FormatInt(q.ID, 10),
			q.QuestionText,
			q.AnswerText,
			scoreCell(q.Score),
			ScoreLabel(q.Score),
			joinIDs(q.CategoryIDs),
		}
		for _, k := range extraCols {
			row = append(row, scalarText(q.AdditionalData[k]))
		}
		data.Rows = append(data.Rows, row)

		data.Stats.Total++
		switch {
		case q.Score == nil:
			data.Stats.Unevaluated++
		case *q.Score == 1:
			data.Stats.Agreed++
		default:
			data.Stats.Disagreed++
		}
	}
	return data, nil
}

// Filename renders the download name for an export at the given time:
// medical_evaluation_<filter>_<YYYYMMDD_HHMMSS>.<ext>.
func Filename(filter Filter, ext string, now time.Time) string {
	return fmt.Sprintf("medical_evaluation_%s_%s.%s", filter, now.Format("20060102_150405"), ext)
}

// additionalKeys returns the sorted union of additional_data keys across the
// exported set, so every row gets the same columns.
func additionalKeys(questions []Question) []string {
	seen := make(map[string]bool)
	for _, q := range questions {
		for k := range q.AdditionalData {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// scoreCell renders the numeric score column: empty for unevaluated.
func scoreCell(score *int16) string {
	if score == nil {
		return ""
	}
	return strconv.Itoa(int(*score))
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// scalarText renders an additional_data value for a spreadsheet cell.
// Values arrive as JSON scalars: string, float64, bool, or nil.
func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
