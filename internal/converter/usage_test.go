package converter

import (
	"testing"
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

// usageSheet builds a usage sheet whose data rows start at row 3.
// Each row lists the twelve usage columns in order; missing trailing values
// are blank.
func usageSheet(name string, rows ...[]any) *workbook.MemorySheet {
	s := workbook.NewMemorySheet(name)
	s.SetRow(1, "Usage log")
	s.SetRow(2, "Date", "Requester", "Code", "No.", "Item", "Pcs", "Ct", "Price", "Amount", "Total", "Bal pcs", "Bal ct")
	for i, r := range rows {
		s.SetRow(3+i, r...)
	}
	return s
}

func TestReconstructUsage_ProductCodeStartsBatch(t *testing.T) {
	sheet := usageSheet("Ring",
		[]any{"01/02/2024", "Somchai", "R-001"},
		[]any{nil, nil, nil, 101, "Ruby", 2, 1.5, "1,000", 1500},
		[]any{nil, nil, nil, 102, "Sapphire", 1, 0.8, "2,000", 1600},
		[]any{"05/02/2024", "Nok", "R-002"},
	)

	got := ReconstructUsage(sheet, types.CategoryRing, DefaultUsageColumns())

	if len(got.Batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(got.Batches))
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got.Lines))
	}

	first, second := got.Batches[0], got.Batches[1]
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected local ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if *first.ProductCode != "R-001" || *second.ProductCode != "R-002" {
		t.Errorf("unexpected product codes %q, %q", *first.ProductCode, *second.ProductCode)
	}
	if first.SourceRow != 3 || second.SourceRow != 6 {
		t.Errorf("unexpected source rows %d, %d", first.SourceRow, second.SourceRow)
	}
	if first.Category != types.CategoryRing || first.SourceSheet != "Ring" {
		t.Errorf("unexpected batch provenance %q/%q", first.SourceSheet, first.Category)
	}

	want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if first.TransactionDate == nil || !first.TransactionDate.Equal(want) {
		t.Errorf("TransactionDate = %v, want %v", first.TransactionDate, want)
	}

	for _, line := range got.Lines {
		if line.BatchID != first.ID {
			t.Errorf("line at row %d belongs to batch %d, want %d", line.SourceRow, line.BatchID, first.ID)
		}
	}

	line := got.Lines[0]
	if line.GemstoneNumber == nil || *line.GemstoneNumber != 101 {
		t.Errorf("GemstoneNumber = %v, want 101", line.GemstoneNumber)
	}
	if line.UnitPriceRaw == nil || *line.UnitPriceRaw != "1,000" {
		t.Errorf("UnitPriceRaw = %v, want 1,000", line.UnitPriceRaw)
	}
	if line.LineAmount == nil || *line.LineAmount != 1500 {
		t.Errorf("LineAmount = %v, want 1500", line.LineAmount)
	}

	if got.DroppedBatches != 0 {
		t.Errorf("expected no dropped batches, got %d", got.DroppedBatches)
	}
}

func TestReconstructUsage_HeaderRepeatsAreSkipped(t *testing.T) {
	sheet := usageSheet("Earrings",
		[]any{"วันที่", "ลูกค้า", nil, nil, nil, nil, nil, nil, nil, "customer"},
		[]any{"01/03/2024", "customer"},
		[]any{"Date", "Requester", "Code", "No.", "ชื่อพลอย", "Pcs"},
		[]any{"02/03/2024", "Lek", "E-1", 7, "Pearl", 2},
	)

	got := ReconstructUsage(sheet, types.CategoryEarrings, DefaultUsageColumns())

	if len(got.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(got.Batches))
	}
	if got.Batches[0].SourceRow != 6 {
		t.Errorf("expected batch from row 6, got %d", got.Batches[0].SourceRow)
	}
	if len(got.Lines) != 1 || got.Lines[0].SourceRow != 6 {
		t.Fatalf("expected a single line from row 6, got %+v", got.Lines)
	}
}

func TestReconstructUsage_HeaderLabelIsCaseSensitive(t *testing.T) {
	sheet := usageSheet("Ring",
		[]any{"01/02/2024", "A", "-", 1, "x", 1},
		[]any{nil, nil, "--", 2, "y", 1},
		[]any{nil, "Customer", nil, nil, nil, nil, nil, nil, nil, 5},
		[]any{nil, nil, "C1"},
	)

	got := ReconstructUsage(sheet, types.CategoryRing, DefaultUsageColumns())

	if len(got.Batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(got.Batches))
	}
	first := got.Batches[0]
	if first.TotalAmount == nil || *first.TotalAmount != 5 {
		t.Errorf("TotalAmount = %v, want 5 merged from the Customer row", first.TotalAmount)
	}
	if first.RequesterName == nil || *first.RequesterName != "A" {
		t.Errorf("RequesterName = %v, want A", first.RequesterName)
	}
	if len(got.Lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(got.Lines))
	}
}

func TestReconstructUsage_MergeRules(t *testing.T) {
	sheet := usageSheet("Bracelet",
		[]any{nil, nil, "B-9", 1, "Onyx", 4, nil, nil, 400},
		[]any{"10/04/2024", "Pim", nil, 2, "Jade", 1, nil, nil, 100, 450},
		[]any{"11/04/2024", "Other", nil, 3, "Opal", 1, nil, nil, 50, 500},
	)

	got := ReconstructUsage(sheet, types.CategoryBracelet, DefaultUsageColumns())

	if len(got.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(got.Batches))
	}
	b := got.Batches[0]

	// First non-nil date and requester win.
	want := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	if b.TransactionDate == nil || !b.TransactionDate.Equal(want) {
		t.Errorf("TransactionDate = %v, want %v", b.TransactionDate, want)
	}
	if b.TransactionDateRaw == nil || *b.TransactionDateRaw != "10/04/2024" {
		t.Errorf("TransactionDateRaw = %v, want 10/04/2024", b.TransactionDateRaw)
	}
	if b.RequesterName == nil || *b.RequesterName != "Pim" {
		t.Errorf("RequesterName = %v, want Pim", b.RequesterName)
	}

	// The latest total wins.
	if b.TotalAmount == nil || *b.TotalAmount != 500 {
		t.Errorf("TotalAmount = %v, want 500", b.TotalAmount)
	}

	if len(got.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got.Lines))
	}
	if got.Lines[2].RequesterName == nil || *got.Lines[2].RequesterName != "Other" {
		t.Errorf("line requester should keep the row's own value, got %v", got.Lines[2].RequesterName)
	}
	if got.Lines[0].RequesterName != nil {
		t.Errorf("first line has no requester on its row, got %v", *got.Lines[0].RequesterName)
	}
}

func TestReconstructUsage_PostPassDropsEmptyBatches(t *testing.T) {
	sheet := usageSheet("Brooch",
		// A date on its own opens a batch that never receives lines.
		[]any{"01/05/2024"},
		[]any{nil, nil, "BR-1", 5, "Topaz", 1},
		// Noise rows.
		[]any{},
		[]any{nil, "   "},
		// Code without lines survives.
		[]any{nil, nil, "BR-2"},
	)

	got := ReconstructUsage(sheet, types.CategoryBrooch, DefaultUsageColumns())

	if got.DroppedBatches != 1 {
		t.Errorf("expected 1 dropped batch, got %d", got.DroppedBatches)
	}
	if len(got.Batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(got.Batches))
	}
	if got.Batches[0].ID != 2 || got.Batches[1].ID != 3 {
		t.Errorf("expected surviving local ids 2 and 3, got %d and %d", got.Batches[0].ID, got.Batches[1].ID)
	}
	if len(got.Lines) != 1 || got.Lines[0].BatchID != 2 {
		t.Errorf("expected one line on batch 2, got %+v", got.Lines)
	}
}

func TestReconstructUsage_LineWithoutHeaderOpensBatch(t *testing.T) {
	sheet := usageSheet("Clips+Cuffinks",
		[]any{nil, nil, nil, 11, "Garnet", 3, 1.1},
		[]any{nil, nil, nil, 12, "Amethyst", 1, 0.4},
	)

	got := ReconstructUsage(sheet, types.CategoryClipsCufflinks, DefaultUsageColumns())

	if len(got.Batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(got.Batches))
	}
	if got.Batches[0].ProductCode != nil || got.Batches[0].TotalAmount != nil {
		t.Errorf("expected an anonymous batch, got %+v", got.Batches[0])
	}
	if len(got.Lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(got.Lines))
	}
}

func TestReconstructUsage_EmptySheet(t *testing.T) {
	got := ReconstructUsage(usageSheet("Ring"), types.CategoryRing, DefaultUsageColumns())

	if len(got.Batches) != 0 || len(got.Lines) != 0 {
		t.Errorf("expected no output, got %d batches and %d lines", len(got.Batches), len(got.Lines))
	}
}
