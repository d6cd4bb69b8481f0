// =============================================================================
// Gem Stock Importer - XLSX Workbook Loader
// =============================================================================
//
// This module loads an .xlsx workbook from disk (or any reader) into the
// in-memory workbook model consumed by the converter. The whole workbook is
// materialized before parsing starts.
//
// CELL TYPES:
//   Cells keep the type stored in the file:
//   - booleans        -> workbook.Bool
//   - strings/errors  -> workbook.Text (error cells keep their literal, e.g. "#VALUE!")
//   - numbers         -> workbook.Number, or workbook.Date when the cell's
//                        number format is a date format
//   - ISO date cells  -> workbook.Date
//
//   Formula cells contribute their cached result; formulas are never evaluated.
//
// DATE FORMATS:
//   A numeric cell is a date when its style uses a built-in date format
//   (ids 14-22, 27-36, 45-47, 50-58) or a custom format containing a day or
//   year token outside quoted literals and bracketed sections.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

// ErrWorkbookNotFound is returned by Open when the path does not exist.
var ErrWorkbookNotFound = errors.New("workbook not found")

// Open reads the workbook at path.
//
// PARAMETERS:
//   - path: Path to an .xlsx file.
//
// RETURNS:
//   - The workbook with every sheet in tab order.
//   - ErrWorkbookNotFound (wrapped) if the file does not exist.
func Open(path string) (*workbook.MemoryWorkbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return load(f)
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader) (*workbook.MemoryWorkbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return load(f)
}

// =============================================================================
// LOADING
// =============================================================================

// loader holds per-file state while sheets are read.
type loader struct {
	f         *excelize.File
	date1904  bool
	dateStyle map[int]bool
}

func load(f *excelize.File) (*workbook.MemoryWorkbook, error) {
	l := &loader{
		f:         f,
		dateStyle: make(map[int]bool),
	}

	props, err := f.GetWorkbookProps()
	if err == nil && props.Date1904 != nil {
		l.date1904 = *props.Date1904
	}

	wb := workbook.NewMemoryWorkbook()
	for _, name := range f.GetSheetList() {
		sheet, err := l.loadSheet(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		wb.Add(sheet)
	}

	return wb, nil
}

func (l *loader) loadSheet(name string) (*workbook.MemorySheet, error) {
	rows, err := l.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	sheet := workbook.NewMemorySheet(name)
	for r, row := range rows {
		rowNum := r + 1
		// Rows that exist but hold nothing still count towards MaxRow.
		sheet.Set(rowNum, 1, workbook.Value{})

		for c, raw := range row {
			if raw == "" {
				continue
			}
			colNum := c + 1

			cellName, err := excelize.CoordinatesToCellName(colNum, rowNum)
			if err != nil {
				return nil, err
			}

			value, err := l.cellValue(name, cellName, raw)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", cellName, err)
			}
			sheet.Set(rowNum, colNum, value)
		}
	}

	return sheet, nil
}

// cellValue converts the raw text of one cell to a typed value.
func (l *loader) cellValue(sheet, cell, raw string) (workbook.Value, error) {
	cellType, err := l.f.GetCellType(sheet, cell)
	if err != nil {
		return workbook.Value{}, err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return workbook.BoolValue(raw == "1" || strings.EqualFold(raw, "true")), nil

	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return workbook.TextValue(raw), nil

	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return workbook.DateValue(t), nil
		}
		return workbook.TextValue(raw), nil
	}

	// Numbers, and cells without an explicit type attribute.
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return workbook.TextValue(raw), nil
	}

	isDate, err := l.isDateCell(sheet, cell)
	if err != nil {
		return workbook.Value{}, err
	}
	if isDate {
		t, err := excelize.ExcelDateToTime(n, l.date1904)
		if err == nil {
			return workbook.DateValue(t), nil
		}
	}

	return workbook.NumberValue(n), nil
}

// isDateCell reports whether the cell's number format renders a date.
func (l *loader) isDateCell(sheet, cell string) (bool, error) {
	styleID, err := l.f.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}

	if isDate, ok := l.dateStyle[styleID]; ok {
		return isDate, nil
	}

	style, err := l.f.GetStyle(styleID)
	if err != nil {
		return false, err
	}

	isDate := false
	switch {
	case style.CustomNumFmt != nil:
		isDate = IsDateFormat(*style.CustomNumFmt)
	default:
		isDate = IsBuiltInDateFormat(style.NumFmt)
	}

	l.dateStyle[styleID] = isDate
	return isDate, nil
}

// IsBuiltInDateFormat reports whether a built-in number format id is a date
// or date-time format.
func IsBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// IsDateFormat reports whether a custom number format code contains a day or
// year token. Quoted literals, escaped characters and bracketed sections such
// as [Red] or [$-409] are ignored.
func IsDateFormat(code string) bool {
	var (
		inQuote   bool
		inBracket bool
		escaped   bool
	)

	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			if r == '"' {
				inQuote = false
			}
		case inBracket:
			if r == ']' {
				inBracket = false
			}
		case r == '\\' || r == '_' || r == '*':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		case r == 'd' || r == 'y':
			return true
		}
	}

	return false
}

// parseISODate parses the ISO 8601 forms excelize reports for typed date cells.
func parseISODate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
