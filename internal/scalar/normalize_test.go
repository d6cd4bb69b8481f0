package scalar

import (
	"testing"
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input workbook.Value
		want  *string
	}{
		{"blank", workbook.Value{}, nil},
		{"empty", workbook.TextValue(""), nil},
		{"whitespace", workbook.TextValue("   "), nil},
		{"dash", workbook.TextValue("-"), nil},
		{"double dash", workbook.TextValue(" -- "), nil},
		{"trimmed", workbook.TextValue("  Ruby "), strPtr("Ruby")},
		{"number", workbook.NumberValue(12), strPtr("12")},
		{"fraction", workbook.NumberValue(1.25), strPtr("1.25")},
		{"date", workbook.DateValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), strPtr("2024-03-01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.input)
			assertStr(t, got, tt.want)
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		input workbook.Value
		want  *float64
	}{
		{"blank", workbook.Value{}, nil},
		{"bool true", workbook.BoolValue(true), nil},
		{"bool false", workbook.BoolValue(false), nil},
		{"numeric", workbook.NumberValue(42.5), f64(42.5)},
		{"zero", workbook.NumberValue(0), f64(0)},
		{"text with suffix", workbook.TextValue("1,234.50 net"), f64(1234.5)},
		{"first match wins", workbook.TextValue("12 pcs @ 300"), f64(12)},
		{"negative", workbook.TextValue("-3.5"), f64(-3.5)},
		{"doubled decimal point", workbook.TextValue("12..5"), f64(12.5)},
		{"no digits", workbook.TextValue("abc"), nil},
		{"dash", workbook.TextValue("-"), nil},
		{"double dash", workbook.TextValue("--"), nil},
		{"customer label", workbook.TextValue("customer"), nil},
		{"empty text", workbook.TextValue("  "), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloat(t, Number(tt.input), tt.want)
		})
	}
}

func TestParseNumber_Examples(t *testing.T) {
	assertFloat(t, ParseNumber("1,234.50 net"), f64(1234.5))
	assertFloat(t, ParseNumber("abc"), nil)
	assertFloat(t, ParseNumber("price 2,500"), f64(2500))
}

func TestInteger(t *testing.T) {
	tests := []struct {
		name  string
		input workbook.Value
		want  *int64
	}{
		{"exact", workbook.NumberValue(3), i64(3)},
		{"within tolerance", workbook.NumberValue(3.00000001), i64(3)},
		{"below within tolerance", workbook.NumberValue(2.9999999999), i64(3)},
		{"fractional", workbook.NumberValue(3.2), nil},
		{"text", workbook.TextValue("No. 105"), i64(105)},
		{"fractional text", workbook.TextValue("10.5"), nil},
		{"blank", workbook.Value{}, nil},
		{"bool", workbook.BoolValue(true), nil},
		{"large", workbook.NumberValue(1 << 53), i64(1 << 53)},
		{"2^63 overflows", workbook.NumberValue(9223372036854775807), nil},
		{"min int64", workbook.NumberValue(-9223372036854775808), i64(-9223372036854775808)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Integer(tt.input)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Fatalf("Integer() = %v, want %v", fmtPtr(got), fmtPtr(tt.want))
			case *got != *tt.want:
				t.Errorf("Integer() = %d, want %d", *got, *tt.want)
			}
		})
	}
}

// ============================================================================
// helpers
// ============================================================================

func strPtr(s string) *string { return &s }
func f64(f float64) *float64  { return &f }
func i64(i int64) *int64      { return &i }

func fmtPtr[T any](p *T) any {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func assertStr(t *testing.T, got, want *string) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("got %v, want %v", fmtPtr(got), fmtPtr(want))
	case *got != *want:
		t.Errorf("got %q, want %q", *got, *want)
	}
}

func assertFloat(t *testing.T, got, want *float64) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("got %v, want %v", fmtPtr(got), fmtPtr(want))
	case *got != *want:
		t.Errorf("got %v, want %v", *got, *want)
	}
}
