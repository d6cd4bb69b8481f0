package sqlwriter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
)

// floatPlaces is the number of decimals kept in float literals.
const floatPlaces = 6

// Literal renders v as a SQL literal.
//
// RULES:
//   - nil and nil pointers      -> NULL
//   - bool                      -> 1 / 0
//   - integers                  -> decimal digits
//   - floats                    -> 6 decimals, trailing zeros trimmed; NaN/Inf -> NULL
//   - time.Time                 -> 'YYYY-MM-DD' (the calendar date only)
//   - text                      -> quoted, single quotes doubled
func (d Dialect) Literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"

	case *string:
		if t == nil {
			return "NULL"
		}
		return d.text(*t)
	case *float64:
		if t == nil {
			return "NULL"
		}
		return floatLiteral(*t)
	case *int64:
		if t == nil {
			return "NULL"
		}
		return strconv.FormatInt(*t, 10)
	case *time.Time:
		if t == nil {
			return "NULL"
		}
		return dateLiteral(*t)

	case bool:
		if t {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return floatLiteral(t)
	case time.Time:
		return dateLiteral(t)
	case string:
		return d.text(t)
	case types.Category:
		return d.text(string(t))
	}

	return "NULL"
}

func (d Dialect) text(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	if d.EscapeBackslash {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	if d.NationalText {
		return "N'" + s + "'"
	}
	return "'" + s + "'"
}

func floatLiteral(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NULL"
	}

	s := decimal.NewFromFloat(f).StringFixed(floatPlaces)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}

func dateLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02") + "'"
}
