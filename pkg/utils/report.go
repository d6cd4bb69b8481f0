// =============================================================================
// Gem Stock Importer - Run Report
// =============================================================================
//
// A YAML summary of one import run. It records what was read, what was
// dropped, what the validator found and where the script went, so a run can
// be audited after the console output is gone.
//
// EXAMPLE:
//   run_id: 3f0c9a8e-...
//   workbook: /data/stock.xlsx
//   mode: truncate
//   dialect: mssql
//   inventory_rows: 412
//   categories:
//     - category: ring
//       sheet: Ring
//       batches: 31
//       lines: 88
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/gem-stock-importer/internal/validation"
)

// RunReport summarizes one import run.
type RunReport struct {
	RunID    string `yaml:"run_id"`
	Workbook string `yaml:"workbook"`

	// Mode is "truncate" or "append".
	Mode    string `yaml:"mode"`
	Dialect string `yaml:"dialect"`
	DryRun  bool   `yaml:"dry_run"`

	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`

	InventorySheet string           `yaml:"inventory_sheet"`
	InventoryRows  int              `yaml:"inventory_rows"`
	Categories     []CategoryReport `yaml:"categories"`
	MissingSheets  []string         `yaml:"missing_sheets,omitempty"`

	Batches        int `yaml:"batches"`
	Lines          int `yaml:"lines"`
	DroppedBatches int `yaml:"dropped_batches"`
	DroppedLines   int `yaml:"dropped_lines"`
	SkippedLines   int `yaml:"skipped_lines"`

	ScriptPath string   `yaml:"script_path,omitempty"`
	ExportDir  string   `yaml:"export_dir,omitempty"`
	Executed   bool     `yaml:"executed"`
	Error      string   `yaml:"error,omitempty"`
	Exports    []string `yaml:"exports,omitempty"`

	Findings []*validation.ValidationError `yaml:"findings,omitempty"`
}

// CategoryReport is the per-sheet part of a RunReport.
type CategoryReport struct {
	Category       string `yaml:"category"`
	Sheet          string `yaml:"sheet"`
	Batches        int    `yaml:"batches"`
	Lines          int    `yaml:"lines"`
	DroppedBatches int    `yaml:"dropped_batches"`
}

// WriteReport writes report as YAML to path, creating parent directories.
func WriteReport(path string, report *RunReport) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
