package sqlwriter

import (
	"math"
	"testing"
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
)

func TestLiteral(t *testing.T) {
	mssql, _ := DialectByName(DialectMSSQL, "")
	sqlite, _ := DialectByName(DialectSQLite, "")
	mysql, _ := DialectByName(DialectMySQL, "")

	var (
		nilString *string
		nilFloat  *float64
		nilInt    *int64
		nilTime   *time.Time
	)
	text := "O'Brien"
	weight := 3.5
	number := int64(42)
	day := time.Date(2024, 1, 5, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		d    Dialect
		in   any
		want string
	}{
		{"nil", mssql, nil, "NULL"},
		{"nil string pointer", mssql, nilString, "NULL"},
		{"nil float pointer", mssql, nilFloat, "NULL"},
		{"nil int pointer", mssql, nilInt, "NULL"},
		{"nil time pointer", mssql, nilTime, "NULL"},
		{"true", mssql, true, "1"},
		{"false", mssql, false, "0"},
		{"int", mssql, 7, "7"},
		{"int64 pointer", mssql, &number, "42"},
		{"float pointer", mssql, &weight, "3.5"},
		{"whole float", mssql, 12.0, "12"},
		{"six places", mssql, 1.23456789, "1.234568"},
		{"tiny float", mssql, 0.0000001, "0"},
		{"negative float", mssql, -2.25, "-2.25"},
		{"NaN", mssql, math.NaN(), "NULL"},
		{"Inf", mssql, math.Inf(1), "NULL"},
		{"date", mssql, day, "'2024-01-05'"},
		{"date pointer", mssql, &day, "'2024-01-05'"},
		{"national text", mssql, "Ruby", "N'Ruby'"},
		{"quote doubling", mssql, &text, "N'O''Brien'"},
		{"plain text", sqlite, "O'Brien", "'O''Brien'"},
		{"category", sqlite, types.CategoryRing, "'ring'"},
		{"mysql backslash", mysql, `a\b'c`, `'a\\b''c'`},
		{"thai text", mssql, "ลูกค้า", "N'ลูกค้า'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Literal(tt.in); got != tt.want {
				t.Errorf("Literal(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDialectByName(t *testing.T) {
	d, err := DialectByName("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != DialectMSSQL || d.Table(TableBatches) != "dbo.gem_usage_batches" {
		t.Errorf("default dialect = %s/%s", d.Name, d.Table(TableBatches))
	}

	pg, err := DialectByName("postgresql", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pg.Table(TableLines) != "gem_usage_lines" {
		t.Errorf("postgres table = %s, want unqualified", pg.Table(TableLines))
	}

	if _, err := DialectByName("oracle", ""); err == nil {
		t.Error("expected an error for an unsupported dialect")
	}
}
