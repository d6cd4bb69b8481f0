package utils

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
	"github.com/ginjaninja78/gem-stock-importer/internal/validation"
)

func strPtr(s string) *string { return &s }
func f64(f float64) *float64 { return &f }
func i64(i int64) *int64 { return &i }
func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		format string
		params map[string]string
		ext    string
		check  func(string) bool
	}{
		{
			name:   "uuid placeholder",
			format: "stock-import-{uuid}",
			ext:    ".sql",
			check: func(s string) bool {
				return strings.HasPrefix(s, "stock-import-") && strings.HasSuffix(s, ".sql") && len(s) == len("stock-import-")+36+4
			},
		},
		{
			name:   "param overrides uuid",
			format: "run-{uuid}",
			params: map[string]string{"uuid": "fixed"},
			ext:    ".sql",
			check:  func(s string) bool { return s == "run-fixed.sql" },
		},
		{
			name:   "extension not doubled",
			format: "report.YAML",
			ext:    ".yaml",
			check:  func(s string) bool { return s == "report.YAML" },
		},
		{
			name:   "custom placeholder",
			format: "{mode}_{date}",
			params: map[string]string{"mode": "append"},
			check: func(s string) bool {
				return s == "append_"+time.Now().Format("20060102")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateOutputFileName(tt.format, tt.params, tt.ext)
			if !tt.check(got) {
				t.Errorf("GenerateOutputFileName(%q) = %q", tt.format, got)
			}
		})
	}
}

func TestWriteScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "import.sql")
	text := "BEGIN;\nINSERT INTO t VALUES (N'ทับทิม');\nCOMMIT;\n"

	abs, err := WriteScript(path, text)
	if err != nil {
		t.Fatalf("WriteScript: %v", err)
	}
	if !filepath.IsAbs(abs) {
		t.Errorf("path %q is not absolute", abs)
	}
	if !FileExists(abs) {
		t.Fatalf("script %q not written", abs)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if string(data) != text {
		t.Errorf("script = %q, want %q", data, text)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if FileExists(dir) {
		t.Error("directory reported as file")
	}
	if FileExists(filepath.Join(dir, "missing.xlsx")) {
		t.Error("missing file reported as existing")
	}
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, "stock.xlsx", dir)
	if err != nil || path != "" {
		t.Fatalf("empty findings: path %q, err %v", path, err)
	}

	findings := []*validation.ValidationError{{
		Severity:    validation.SeverityWarning,
		Relation:    validation.RelationInventory,
		SourceSheet: "Stock",
		SourceRow:   7,
		Field:       "use_date",
		Value:       "soon",
		Message:     "date could not be parsed",
	}}

	path, err = WriteErrorLog(findings, "stock.xlsx", dir)
	if err != nil {
		t.Fatalf("WriteErrorLog: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"Workbook:  stock.xlsx", "Findings:  1", "Sheet:          Stock", "Row Number:     7", "Value:          soon"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log is missing %q", want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	report := &RunReport{
		RunID:         "run-1",
		Workbook:      "stock.xlsx",
		Mode:          "append",
		Dialect:       "mssql",
		InventoryRows: 3,
		Categories: []CategoryReport{
			{Category: "ring", Sheet: "Ring", Batches: 2, Lines: 5, DroppedBatches: 1},
		},
		MissingSheets: []string{"Brooch"},
		Batches:       2,
		Lines:         5,
	}

	if err := WriteReport(path, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var got RunReport
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not YAML: %v", err)
	}
	if got.RunID != "run-1" || got.Mode != "append" || got.InventoryRows != 3 {
		t.Errorf("unexpected report %+v", got)
	}
	if len(got.Categories) != 1 || got.Categories[0].DroppedBatches != 1 {
		t.Errorf("categories = %+v", got.Categories)
	}
	if !strings.Contains(string(data), "missing_sheets:") {
		t.Errorf("missing_sheets not written:\n%s", data)
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	set := &types.ImportSet{
		Inventory: []types.InventoryRecord{{
			SourceSheet:        "Stock",
			SourceRow:          3,
			GemstoneNumber:     i64(101),
			GemstoneNumberText: strPtr("101"),
			GemstoneType:       strPtr("Ruby, oval"),
			BuyingDate:         date(2024, 1, 15),
			ParsedWeightCt:     f64(1.25),
		}},
		Batches: []types.UsageBatch{{
			ID:          1,
			SourceSheet: "Ring",
			SourceRow:   3,
			Category:    types.CategoryRing,
			ProductCode: strPtr("R-1"),
			TotalAmount: f64(1500),
		}},
		Lines: []types.UsageLine{{
			BatchID:      1,
			SourceRow:    4,
			GemstoneName: strPtr("ทับทิม"),
			UsedPcs:      f64(2),
		}},
	}

	paths, err := ExportCSV(dir, set)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}

	inventory := readCSV(t, filepath.Join(dir, InventoryCSV))
	if len(inventory) != 2 {
		t.Fatalf("inventory rows = %d, want header + 1", len(inventory))
	}
	if inventory[0][0] != "source_sheet" {
		t.Errorf("inventory header = %v", inventory[0])
	}
	row := inventory[1]
	if row[2] != "101" || row[4] != "Ruby, oval" || row[9] != "2024-01-15" || row[16] != "1.25" {
		t.Errorf("inventory row = %v", row)
	}
	if row[5] != "" {
		t.Errorf("nil weight_pcs_raw = %q, want empty", row[5])
	}

	batches := readCSV(t, filepath.Join(dir, BatchesCSV))
	if got := batches[1]; got[0] != "1" || got[3] != "ring" || got[8] != "1500" {
		t.Errorf("batch row = %v", got)
	}

	lines := readCSV(t, filepath.Join(dir, LinesCSV))
	if got := lines[1]; got[0] != "1" || got[3] != "ทับทิม" || got[4] != "2" {
		t.Errorf("line row = %v", got)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return records
}
