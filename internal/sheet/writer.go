package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"medeval/internal/core"
)

const (
	resultsSheet = "Evaluation Results"
	summarySheet = "Summary"
)

// WriteWorkbook renders an export as an xlsx file with a results sheet and
// a summary sheet of score tallies.
func WriteWorkbook(data *core.ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, resultsSheet, 1, toAnyRow(data.Columns)); err != nil {
		return nil, err
	}
	for i, row := range data.Rows {
		if err := writeRow(f, resultsSheet, i+2, toAnyRow(row)); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}
	summary := [][]any{
		{"Metric", "Value"},
		{"Total questions", data.Stats.Total},
		{"Agreed (score=1)", data.Stats.Agreed},
		{"Disagreed (score=0)", data.Stats.Disagreed},
		{"Not evaluated", data.Stats.Unevaluated},
		{"Evaluated percent", data.Stats.EvaluatedPercent()},
	}
	for i, row := range summary {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

func toAnyRow(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
