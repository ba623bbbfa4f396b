package core

import (
	"reflect"
	"testing"
)

// makeTable builds a table from a header and rows of typed cells.
func makeTable(columns []string, rows ...[]CellValue) *Table {
	t := &Table{Columns: columns}
	for _, r := range rows {
		row := make(Row, len(columns))
		for i, c := range r {
			if i < len(columns) {
				row[columns[i]] = c
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var fullHeader = []string{ColQuestionID, ColQuestionText, ColAnswerText, ColTopic}

func validRow(id int64) []CellValue {
	return []CellValue{
		NumberCell(float64(id)),
		StringCell("What is the dosage?"),
		StringCell("Twice daily."),
		StringCell("pharmacology"),
	}
}

func TestValidateTable_Valid(t *testing.T) {
	tbl := makeTable(fullHeader, validRow(1), validRow(2), validRow(3))
	if verr := ValidateTable(tbl); verr != nil {
		t.Fatalf("ValidateTable() = %v, want nil", verr)
	}
}

func TestValidateTable_MissingColumns(t *testing.T) {
	tbl := makeTable([]string{ColQuestionID, "other"},
		[]CellValue{NumberCell(1), StringCell("x")})

	verr := ValidateTable(tbl)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	want := []string{ColQuestionText, ColAnswerText}
	if !reflect.DeepEqual(verr.MissingColumns, want) {
		t.Errorf("MissingColumns = %v, want %v", verr.MissingColumns, want)
	}
	if len(verr.Duplicates) != 0 || len(verr.EmptyRows) != 0 {
		t.Errorf("schema failure should not report other checks: %+v", verr)
	}
}

func TestValidateTable_DuplicateIDs(t *testing.T) {
	// Rows land at display positions 2..5; id 7 repeats at rows 3 and 5.
	tbl := makeTable(fullHeader, validRow(1), validRow(7), validRow(2), validRow(7))

	verr := ValidateTable(tbl)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Duplicates) != 1 {
		t.Fatalf("Duplicates = %+v, want one entry", verr.Duplicates)
	}
	d := verr.Duplicates[0]
	if d.ID != 7 {
		t.Errorf("duplicate ID = %d, want 7", d.ID)
	}
	if !reflect.DeepEqual(d.Rows, []int{3, 5}) {
		t.Errorf("duplicate rows = %v, want [3 5]", d.Rows)
	}
}

func TestValidateTable_DuplicatesSortedByID(t *testing.T) {
	tbl := makeTable(fullHeader,
		validRow(9), validRow(4), validRow(9), validRow(4))

	verr := ValidateTable(tbl)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Duplicates) != 2 {
		t.Fatalf("Duplicates = %+v, want two entries", verr.Duplicates)
	}
	if verr.Duplicates[0].ID != 4 || verr.Duplicates[1].ID != 9 {
		t.Errorf("duplicates not sorted by id: %+v", verr.Duplicates)
	}
}

func TestValidateTable_EmptyRequiredFields(t *testing.T) {
	blankAnswer := validRow(2)
	blankAnswer[2] = StringCell("   ")
	missingQuestion := validRow(3)
	missingQuestion[1] = CellValue{}

	tbl := makeTable(fullHeader, validRow(1), blankAnswer, missingQuestion)

	verr := ValidateTable(tbl)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if !reflect.DeepEqual(verr.EmptyRows, []int{3, 4}) {
		t.Errorf("EmptyRows = %v, want [3 4]", verr.EmptyRows)
	}
}

func TestValidateTable_InvalidIDs(t *testing.T) {
	badText := validRow(0)
	badText[0] = StringCell("abc")
	negative := validRow(0)
	negative[0] = NumberCell(-5)
	fractional := validRow(0)
	fractional[0] = NumberCell(2.5)

	tbl := makeTable(fullHeader, validRow(1), badText, negative, fractional)

	verr := ValidateTable(tbl)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if !reflect.DeepEqual(verr.InvalidIDRows, []int{3, 4, 5}) {
		t.Errorf("InvalidIDRows = %v, want [3 4 5]", verr.InvalidIDRows)
	}
}

func TestValidateTable_DuplicatesReportedBeforeCompleteness(t *testing.T) {
	blank := validRow(5)
	blank[1] = StringCell("")
	tbl := makeTable(fullHeader, validRow(1), validRow(1), blank)

	verr := ValidateTable(tbl)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Duplicates) == 0 {
		t.Error("expected duplicate report")
	}
	if len(verr.EmptyRows) != 0 {
		t.Errorf("duplicate failure should not report empty rows, got %v", verr.EmptyRows)
	}
}

func TestValidationError_Error(t *testing.T) {
	verr := &ValidationError{
		Duplicates: []DuplicateID{{ID: 7, Rows: []int{3, 5}}},
	}
	got := verr.Error()
	want := "duplicate question_id 7 in rows 3, 5"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
