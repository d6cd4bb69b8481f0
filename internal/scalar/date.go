package scalar

import (
	"strings"
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

// DateLayouts are tried in order against text cells; the first layout that
// parses wins. Day-first layouts come before month-first ones, so "03/04/24"
// is 3 April 2024.
//
// Two-digit years follow Go's pivot: 69-99 map to 19xx, 00-68 to 20xx.
var DateLayouts = []string{
	"2/1/06",   // DD/MM/YY
	"2/1/2006", // DD/MM/YYYY
	"2006-1-2", // YYYY-MM-DD
	"2-1-2006", // DD-MM-YYYY
	"1/2/2006", // MM/DD/YYYY
	"1/2/06",   // MM/DD/YY
}

// datePlaceholders yield neither a date nor raw text.
var datePlaceholders = map[string]struct{}{
	"-":       {},
	"--":      {},
	"#VALUE!": {},
}

// Date resolves a cell into a calendar date and the text it came from.
//
// RETURNS:
//   - (date, iso) for native date cells
//   - (date, text) when the text matches one of DateLayouts
//   - (nil, text) when the text does not parse; the source is never discarded
//   - (nil, nil) for blanks and placeholders
//
// Returned dates are normalized to midnight UTC.
func Date(v workbook.Value) (*time.Time, *string) {
	switch v.Kind {
	case workbook.Blank:
		return nil, nil
	case workbook.Date:
		d := calendarDate(v.Time)
		raw := d.Format("2006-01-02")
		return &d, &raw
	}

	text := strings.TrimSpace(v.String())
	if text == "" {
		return nil, nil
	}
	if _, ok := datePlaceholders[text]; ok {
		return nil, nil
	}

	if d, ok := ParseDateText(text); ok {
		return &d, &text
	}
	return nil, &text
}

// ParseDateText tries DateLayouts in order.
func ParseDateText(text string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return calendarDate(t), true
		}
	}
	return time.Time{}, false
}

func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
