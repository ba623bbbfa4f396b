// Package sheet reads and writes xlsx workbooks via excelize, converting
// between raw spreadsheets and core tables.
package sheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"medeval/internal/core"
)

// dateLayouts are the display formats treated as dates when a numeric cell
// formats differently from its raw serial value.
var dateLayouts = []string{
	"1/2/06 15:04",
	"1/2/06",
	"01-02-06",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-06",
}

// Parse reads the first worksheet of an xlsx file into a table. The first
// row is the header; columns with an empty header are skipped. Trailing
// all-empty rows are dropped, interior ones are kept so validation can
// report them by position.
func Parse(data []byte) (*core.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	name := sheets[0]

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", name)
	}

	// Header: trimmed cell text, empty headers mark columns to skip.
	var columns []string
	colIdx := make([]int, 0, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		columns = append(columns, h)
		colIdx = append(colIdx, i)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("sheet %q has no header columns", name)
	}

	t := &core.Table{Columns: columns}
	for r := 1; r < len(rows); r++ {
		row := make(core.Row, len(columns))
		for c, col := range columns {
			axis, err := excelize.CoordinatesToCellName(colIdx[c]+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell coordinates: %w", err)
			}
			cell, err := readCell(f, name, axis)
			if err != nil {
				return nil, fmt.Errorf("read cell %s: %w", axis, err)
			}
			row[col] = cell
		}
		t.Rows = append(t.Rows, row)
	}

	trimTrailingEmpty(t)
	return t, nil
}

// readCell reads one cell as a typed value. Numeric cells whose number
// format renders a date come back as dates; other numerics stay numbers.
func readCell(f *excelize.File, sheet, axis string) (core.CellValue, error) {
	formatted, err := f.GetCellValue(sheet, axis)
	if err != nil {
		return core.CellValue{}, err
	}
	raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return core.CellValue{}, err
	}
	if strings.TrimSpace(formatted) == "" && strings.TrimSpace(raw) == "" {
		return core.CellValue{}, nil
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return core.StringCell(formatted), nil
	}

	if formatted != raw && looksLikeDate(formatted) {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return core.DateCell(t), nil
		}
	}
	return core.NumberCell(serial), nil
}

func looksLikeDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func trimTrailingEmpty(t *core.Table) {
	for len(t.Rows) > 0 && rowEmpty(t.Rows[len(t.Rows)-1]) {
		t.Rows = t.Rows[:len(t.Rows)-1]
	}
}

func rowEmpty(row core.Row) bool {
	for _, cell := range row {
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}
