// =============================================================================
// Gem Stock Importer - Scalar Normalizer
// =============================================================================
//
// This module converts raw cell values into typed scalars. Every function is
// permissive: malformed input yields nil rather than an error, so a single bad
// cell never rejects a row.
//
// NULL HANDLING:
//   Nullable results are returned as pointers. A nil pointer means "no data";
//   it is distinct from a genuine zero.
//
// PLACEHOLDERS:
//   Spreadsheet authors fill empty cells with sentinel text. These are
//   recognised and treated as no data:
//     - "-" and "--"        : empty cell markers
//     - "customer"          : a header label that leaks into numeric columns
//     - "#VALUE!"           : a cached formula error (dates only)
//
// =============================================================================

package scalar

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

// numberPattern matches a signed number with optional thousands separators
// and an optional decimal part. The first match in a cell wins.
var numberPattern = regexp.MustCompile(`-?\d+(?:,\d{3})*(?:\.\d+)?`)

// textPlaceholders are normalized to nil by Text.
var textPlaceholders = map[string]struct{}{
	"-":  {},
	"--": {},
}

// numberPlaceholders are rejected by ParseNumber before pattern matching.
var numberPlaceholders = map[string]struct{}{
	"-":        {},
	"--":       {},
	"customer": {},
}

// integerTolerance is how far a number may sit from the nearest integer and
// still be accepted by Integer.
const integerTolerance = 1e-6

// =============================================================================
// TEXT
// =============================================================================

// Text trims the value and returns nil for blanks and placeholder dashes.
func Text(v workbook.Value) *string {
	if v.IsBlank() {
		return nil
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return nil
	}
	if _, ok := textPlaceholders[s]; ok {
		return nil
	}
	return &s
}

// =============================================================================
// NUMBERS
// =============================================================================

// Number converts a cell value to a float.
//
// RULES:
//   - blank and boolean cells are nil (TRUE must never become 1)
//   - numeric cells are returned as-is
//   - anything else goes through ParseNumber on its text form
func Number(v workbook.Value) *float64 {
	switch v.Kind {
	case workbook.Blank, workbook.Bool:
		return nil
	case workbook.Number:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return nil
		}
		n := v.Number
		return &n
	default:
		return ParseNumber(v.String())
	}
}

// ParseNumber extracts the first number embedded in free text.
//
// EXAMPLES:
//   "1,234.50 net" -> 1234.5
//   "12..5"        -> 12.5   (doubled decimal points are collapsed)
//   "abc"          -> nil
//   "--"           -> nil
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, ok := numberPlaceholders[s]; ok {
		return nil
	}

	s = strings.ReplaceAll(s, "..", ".")
	match := numberPattern.FindString(s)
	if match == "" {
		return nil
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &n
}

// Integer converts a cell value to an integer. Values more than 1e-6 away from
// the nearest integer are rejected, so 3.00000001 is 3 while 3.2 is nil.
func Integer(v workbook.Value) *int64 {
	n := Number(v)
	if n == nil {
		return nil
	}
	rounded := math.Round(*n)
	if math.Abs(*n-rounded) > integerTolerance {
		return nil
	}
	// float64(math.MaxInt64) is 2^63, which int64 cannot hold.
	if rounded >= math.MaxInt64 || rounded < math.MinInt64 {
		return nil
	}
	i := int64(rounded)
	return &i
}
