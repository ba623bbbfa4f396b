// Package core implements the business logic of the question review service:
// spreadsheet ingestion and validation, the list/detail query surface,
// annotation updates, and export row assembly. It has no HTTP dependencies;
// persistence is reached through the Store interface defined in this package.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies the type of a spreadsheet cell value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellDate
)

// CellValue is a typed spreadsheet cell produced by the sheet reader.
// Which of Str, Num, and Time is meaningful depends on Kind.
type CellValue struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
}

// StringCell returns a text cell.
func StringCell(s string) CellValue { return CellValue{Kind: CellString, Str: s} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) CellValue { return CellValue{Kind: CellNumber, Num: f} }

// DateCell returns a date cell.
func DateCell(t time.Time) CellValue { return CellValue{Kind: CellDate, Time: t} }

// IsEmpty reports whether the cell holds no usable value. Whitespace-only
// text counts as empty, matching how reviewers read the sheet.
func (c CellValue) IsEmpty() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellString:
		return strings.TrimSpace(c.Str) == ""
	}
	return false
}

// DateLayout renders dates as M/D/YYYY with no leading zero on month or day,
// e.g. 3/7/2024. This is the format preserved in additional_data and exports.
const DateLayout = "1/2/2006"

// Text coerces the cell to its textual form. Numbers drop trailing zeros;
// dates use DateLayout.
func (c CellValue) Text() string {
	switch c.Kind {
	case CellString:
		return strings.TrimSpace(c.Str)
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		return c.Time.Format(DateLayout)
	}
	return ""
}

// Int64 coerces the cell to an integer identifier. Numeric cells must hold a
// whole number; text cells must parse as a base-10 integer.
func (c CellValue) Int64() (int64, error) {
	switch c.Kind {
	case CellNumber:
		n := int64(c.Num)
		if float64(n) != c.Num {
			return 0, fmt.Errorf("not an integer: %v", c.Num)
		}
		return n, nil
	case CellString:
		n, err := strconv.ParseInt(strings.TrimSpace(c.Str), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", c.Str)
		}
		return n, nil
	}
	return 0, fmt.Errorf("empty cell")
}

// Scalar returns the JSON-ready representation stored in additional_data.
// Dates become DateLayout strings so the original display format survives the
// round trip; empty cells become nil.
func (c CellValue) Scalar() any {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return c.Num
	case CellDate:
		return c.Time.Format(DateLayout)
	}
	return nil
}
