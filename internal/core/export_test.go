package core

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestScoreLabel(t *testing.T) {
	if got := ScoreLabel(nil); got != "not evaluated" {
		t.Errorf("ScoreLabel(nil) = %q", got)
	}
	if got := ScoreLabel(scorePtr(1)); got != "agree" {
		t.Errorf("ScoreLabel(1) = %q", got)
	}
	if got := ScoreLabel(scorePtr(0)); got != "disagree" {
		t.Errorf("ScoreLabel(0) = %q", got)
	}
}

func TestExporterBuild(t *testing.T) {
	store := &fakeStore{questions: []Question{
		{
			ID: 1, QuestionText: "Q1", AnswerText: "A1",
			Score: scorePtr(1), CategoryIDs: []int64{1, 3},
			AdditionalData: map[string]any{"topic": "cardiology", "difficulty": 2.0},
		},
		{
			ID: 2, QuestionText: "Q2", AnswerText: "A2",
			Score:          scorePtr(0),
			AdditionalData: map[string]any{"topic": "oncology"},
		},
		{ID: 3, QuestionText: "Q3", AnswerText: "A3"},
	}}
	exporter := NewExporter(store)

	data, err := exporter.Build(context.Background(), FilterAll)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantCols := []string{
		"question_id", "question_text", "answer_text",
		"score", "score_text", "categories",
		"difficulty", "topic",
	}
	if !reflect.DeepEqual(data.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", data.Columns, wantCols)
	}

	if len(data.Rows) != 3 {
		t.Fatalf("Rows = %d, want 3", len(data.Rows))
	}
	want0 := []string{"1", "Q1", "A1", "1", "agree", "1,3", "2", "cardiology"}
	if !reflect.DeepEqual(data.Rows[0], want0) {
		t.Errorf("row[0] = %v, want %v", data.Rows[0], want0)
	}
	// Missing extra keys render as empty cells, unevaluated score stays blank
	want2 := []string{"3", "Q3", "A3", "", "not evaluated", "", "", ""}
	if !reflect.DeepEqual(data.Rows[2], want2) {
		t.Errorf("row[2] = %v, want %v", data.Rows[2], want2)
	}

	stats := data.Stats
	if stats.Total != 3 || stats.Agreed != 1 || stats.Disagreed != 1 || stats.Unevaluated != 1 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestExporterBuild_Filtered(t *testing.T) {
	store := &fakeStore{questions: seedQuestions(6)} // ids 2, 4, 6 evaluated
	exporter := NewExporter(store)

	data, err := exporter.Build(context.Background(), FilterUnevaluated)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(data.Rows) != 3 {
		t.Fatalf("Rows = %d, want 3", len(data.Rows))
	}
	if data.Rows[0][0] != "1" || data.Rows[1][0] != "3" || data.Rows[2][0] != "5" {
		t.Errorf("unexpected ids: %v %v %v", data.Rows[0][0], data.Rows[1][0], data.Rows[2][0])
	}
	if data.Filter != FilterUnevaluated {
		t.Errorf("Filter = %q", data.Filter)
	}
}

func TestExportStats_EvaluatedPercent(t *testing.T) {
	tests := []struct {
		stats ExportStats
		want  string
	}{
		{ExportStats{}, "0%"},
		{ExportStats{Total: 4, Agreed: 1, Disagreed: 1, Unevaluated: 2}, "50.0%"},
		{ExportStats{Total: 3, Agreed: 3}, "100.0%"},
		{ExportStats{Total: 6, Agreed: 4, Disagreed: 1, Unevaluated: 1}, "83.3%"},
	}
	for _, tt := range tests {
		if got := tt.stats.EvaluatedPercent(); got != tt.want {
			t.Errorf("EvaluatedPercent(%+v) = %q, want %q", tt.stats, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC)
	got := Filename(FilterEvaluated, "csv", now)
	want := "medical_evaluation_evaluated_20240307_140509.csv"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	got = Filename(FilterAll, "xlsx", now)
	want = "medical_evaluation_all_20240307_140509.xlsx"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}
