package validation

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
)

func strPtr(s string) *string { return &s }
func f64(f float64) *float64  { return &f }
func i64(i int64) *int64      { return &i }

func validSet() *types.ImportSet {
	return &types.ImportSet{
		Inventory: []types.InventoryRecord{
			{SourceSheet: "Stock", SourceRow: 3, GemstoneNumber: i64(1), GemstoneNumberText: strPtr("1"), GemstoneType: strPtr("Ruby")},
		},
		Batches: []types.UsageBatch{
			{ID: 1, SourceSheet: "Ring", SourceRow: 3, Category: types.CategoryRing, ProductCode: strPtr("R-1")},
			{ID: 2, SourceSheet: "Ring", SourceRow: 6, Category: types.CategoryRing, TotalAmount: f64(100)},
		},
		Lines: []types.UsageLine{
			{BatchID: 1, SourceRow: 4, GemstoneNumber: i64(1), UsedPcs: f64(1)},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	result := Validate(validSet())

	if !result.IsValid {
		t.Fatalf("expected a valid set, got:\n%s", FormatErrors(result.Errors))
	}
	if result.WarningCount != 0 {
		t.Errorf("expected no warnings, got %d", result.WarningCount)
	}
}

func TestValidate_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ImportSet)
		want   string
	}{
		{
			name:   "empty inventory record",
			mutate: func(s *types.ImportSet) { s.Inventory = append(s.Inventory, types.InventoryRecord{SourceSheet: "Stock", SourceRow: 9}) },
			want:   "no value in any source column",
		},
		{
			name:   "orphan line",
			mutate: func(s *types.ImportSet) { s.Lines[0].BatchID = 42 },
			want:   "missing batch",
		},
		{
			name:   "duplicate batch id",
			mutate: func(s *types.ImportSet) { s.Batches[1].ID = 1 },
			want:   "not unique",
		},
		{
			name:   "retention rule",
			mutate: func(s *types.ImportSet) { s.Batches[1].TotalAmount = nil },
			want:   "no lines, product code or total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := validSet()
			tt.mutate(set)

			result := Validate(set)
			if result.IsValid {
				t.Fatal("expected the set to be invalid")
			}

			fatal := result.Fatal()
			if len(fatal) == 0 || !strings.Contains(fatal[0].Message, tt.want) {
				t.Errorf("expected an error containing %q, got:\n%s", tt.want, FormatErrors(fatal))
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	set := validSet()
	set.Inventory[0].GemstoneNumber = nil
	set.Inventory[0].GemstoneNumberText = strPtr("Lot A")
	set.Inventory[0].BuyingDateRaw = strPtr("early March")
	set.Batches[0].TransactionDateRaw = strPtr("?")
	set.Lines[0].UsedPcs = nil

	result := Validate(set)

	if !result.IsValid {
		t.Fatalf("warnings must not invalidate the set:\n%s", FormatErrors(result.Errors))
	}
	if result.WarningCount != 4 {
		t.Errorf("expected 4 warnings, got %d:\n%s", result.WarningCount, FormatErrors(result.Errors))
	}

	for _, w := range result.Warnings() {
		if w.SourceSheet == "" {
			t.Errorf("warning without sheet: %s", w.Error())
		}
	}
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{
		Severity:    SeverityWarning,
		Relation:    RelationInventory,
		SourceSheet: "Stock",
		SourceRow:   7,
		Field:       "use_date",
		Value:       "soon",
		Message:     "date could not be parsed",
	}

	want := "[WARNING] inventory Stock:7, field 'use_date': date could not be parsed (value: 'soon')"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
