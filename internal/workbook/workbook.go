// =============================================================================
// Gem Stock Importer - Workbook Model
// =============================================================================
//
// This package defines the in-memory workbook structure the parsing engine
// reads from. The engine never touches the file system: a loader (see
// internal/xlsxparser) materializes every sheet into this model first.
//
// ADDRESSING:
//   Rows and columns are 1-based, matching what a user sees in the
//   spreadsheet application (row 3, column 1 == cell A3).
//
// =============================================================================

package workbook

import (
	"strconv"
	"time"
)

// =============================================================================
// CELL VALUES
// =============================================================================

// Kind identifies the type of a cell value.
type Kind int

const (
	// Blank is an empty or missing cell.
	Blank Kind = iota

	// Text is a string cell, including error literals such as "#VALUE!".
	Text

	// Number is a numeric cell that does not carry a date format.
	Number

	// Bool is a TRUE/FALSE cell.
	Bool

	// Date is a numeric cell with a date number format, or a native date cell.
	Date
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case Date:
		return "date"
	default:
		return "blank"
	}
}

// Value is a single typed cell value. Only the field matching Kind is set.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Bool   bool
	Time   time.Time
}

// TextValue returns a text cell value.
func TextValue(s string) Value { return Value{Kind: Text, Text: s} }

// NumberValue returns a numeric cell value.
func NumberValue(n float64) Value { return Value{Kind: Number, Number: n} }

// BoolValue returns a boolean cell value.
func BoolValue(b bool) Value { return Value{Kind: Bool, Bool: b} }

// DateValue returns a date cell value.
func DateValue(t time.Time) Value { return Value{Kind: Date, Time: t} }

// IsBlank reports whether the cell holds no value at all.
func (v Value) IsBlank() bool { return v.Kind == Blank }

// String renders the value the way it would appear as plain text.
// Dates without a clock component render as YYYY-MM-DD.
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Text
	case Number:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(v.Bool)
	case Date:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

// Of converts a Go value into a cell Value. It is used by loaders and tests
// that build workbooks by hand.
//
// Supported inputs: nil, Value, string, bool, time.Time and all integer and
// float types. Anything else is rendered as blank.
func Of(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return TextValue(t)
	case bool:
		return BoolValue(t)
	case time.Time:
		return DateValue(t)
	case float64:
		return NumberValue(t)
	case float32:
		return NumberValue(float64(t))
	case int:
		return NumberValue(float64(t))
	case int32:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case uint:
		return NumberValue(float64(t))
	case uint32:
		return NumberValue(float64(t))
	case uint64:
		return NumberValue(float64(t))
	default:
		return Value{}
	}
}

// =============================================================================
// SHEET AND WORKBOOK INTERFACES
// =============================================================================

// Sheet gives row/column-indexed access to one worksheet.
type Sheet interface {
	// Name is the worksheet name as shown on its tab.
	Name() string

	// MaxRow is the last row number that holds any value.
	MaxRow() int

	// Cell returns the value at (row, col). Out-of-range cells are blank.
	Cell(row, col int) Value
}

// Workbook is a set of named sheets in tab order.
type Workbook interface {
	// SheetNames lists sheet names in tab order.
	SheetNames() []string

	// Sheet looks up a sheet by exact, case-sensitive name.
	Sheet(name string) (Sheet, bool)
}
