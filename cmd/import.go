// =============================================================================
// Gem Stock Importer - Import Command
// =============================================================================
//
// This file defines the 'import' command, which is the main command of the
// application. It parses the workbook and loads it into the database.
//
// COMMAND USAGE:
//   gemstock import --excel-path stock.xlsx [flags]
//
// PROCESSING FLOW:
//   1. Check the workbook exists, then load and parse it
//   2. Validate the parsed records (invariant errors abort the run)
//   3. Write the optional CSV exports and the error log
//   4. Stop here on --dry-run
//   5. Build the import script and write it to a file
//   6. Stop here on --skip-execute
//   7. Execute the script in one transaction
//
// The run report and metrics textfile, when configured, are written whatever
// the outcome.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/gem-stock-importer/internal/converter"
	"github.com/ginjaninja78/gem-stock-importer/internal/metrics"
	"github.com/ginjaninja78/gem-stock-importer/internal/sqlwriter"
	"github.com/ginjaninja78/gem-stock-importer/internal/store"
	"github.com/ginjaninja78/gem-stock-importer/internal/types"
	"github.com/ginjaninja78/gem-stock-importer/internal/validation"
	"github.com/ginjaninja78/gem-stock-importer/internal/xlsxparser"
	"github.com/ginjaninja78/gem-stock-importer/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// noTruncate switches to append mode.
var noTruncate bool

// dryRun parses and reports without building or executing a script.
var dryRun bool

// skipExecute writes the script to --sql-output without executing it.
var skipExecute bool

// scriptName is the generated script name when --sql-output is not given.
const scriptName = "stock-import-{uuid}"

// =============================================================================
// IMPORT COMMAND DEFINITION
// =============================================================================

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the gem stock workbook into the database",
	Long: `The import command reads the inventory sheet and every usage sheet of the
workbook, rebuilds the usage batches and loads everything in one transaction.

By default the three tables are cleared first and batches keep their parsed
ids. With --no-truncate existing rows are kept and batches get fresh ids
derived from the current time.

On success:
  - The generated script stays in the output directory
  - A summary is printed

On error:
  - The transaction is rolled back
  - The error names the script file so it can be inspected or rerun`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	flags := importCmd.Flags()

	flags.BoolVar(&noTruncate, "no-truncate", false, "Append instead of replacing the tables")
	flags.BoolVar(&dryRun, "dry-run", false, "Parse and report without touching the database")
	flags.BoolVar(&skipExecute, "skip-execute", false, "Only write the script (requires --sql-output)")

	flags.String("sql-output", "", "Write the import script to this file")
	flags.String("export-dir", "", "Write the parsed records as CSV files into this directory")
	flags.String("report", "", "Write a YAML run report to this file")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile")

	cobra.CheckErr(v.BindPFlag("sql_output", flags.Lookup("sql-output")))
	cobra.CheckErr(v.BindPFlag("export_dir", flags.Lookup("export-dir")))
	cobra.CheckErr(v.BindPFlag("report_file", flags.Lookup("report")))
	cobra.CheckErr(v.BindPFlag("metrics_file", flags.Lookup("metrics-file")))
}

// =============================================================================
// IMPORT LOGIC
// =============================================================================

// runImport executes one import run.
func runImport(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.WorkbookPath == "" {
		return fmt.Errorf("no workbook given: use --excel-path or workbook_path")
	}
	if skipExecute && cfg.SQLOutput == "" {
		return fmt.Errorf("--skip-execute requires --sql-output")
	}
	if noTruncate {
		cfg.Truncate = false
	}

	dialect, err := cfg.SQLDialect()
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log := logger.With("run_id", runID)

	report := &utils.RunReport{
		RunID:     runID,
		Workbook:  cfg.WorkbookPath,
		Mode:      modeName(cfg.Truncate),
		Dialect:   dialect.Name,
		DryRun:    dryRun,
		StartedAt: time.Now(),
		ExportDir: cfg.ExportDir,
	}
	recorder := metrics.NewRecorder()

	defer func() {
		recorder.Finish(err == nil)
		finishRun(log, report, recorder, err)
	}()

	fmt.Println("=== Gem Stock Importer ===")
	fmt.Printf("Workbook: %s\n", cfg.WorkbookPath)

	// ==========================================================================
	// STEP 1: PARSE THE WORKBOOK
	// ==========================================================================

	wb, err := xlsxparser.Open(cfg.WorkbookPath)
	if err != nil {
		return err
	}

	result, err := converter.New(log).Run(wb)
	if err != nil {
		return fmt.Errorf("failed to parse workbook: %w", err)
	}
	fillReport(report, result)

	// ==========================================================================
	// STEP 2: VALIDATE
	// ==========================================================================

	vr := validation.Validate(result.Set)
	report.Findings = vr.Errors
	recorder.Observe(result, vr.WarningCount)

	for _, w := range vr.Warnings() {
		log.Warn("data quality", "finding", w.Error())
	}

	if logPath, logErr := utils.WriteErrorLog(vr.Errors, cfg.WorkbookPath, cfg.OutputDir); logErr != nil {
		log.Error("failed to write error log", "error", logErr)
	} else if logPath != "" {
		log.Info("findings written", "path", logPath, "count", len(vr.Errors))
	}

	if !vr.IsValid {
		return fmt.Errorf("parsed records failed validation:\n%s", validation.FormatErrors(vr.Fatal()))
	}

	// ==========================================================================
	// STEP 3: EXPORTS
	// ==========================================================================

	if cfg.ExportDir != "" {
		paths, exportErr := utils.ExportCSV(cfg.ExportDir, result.Set)
		if exportErr != nil {
			return exportErr
		}
		report.Exports = paths
		log.Info("records exported", "dir", cfg.ExportDir, "files", len(paths))
	}

	printCounts(result)

	if dryRun {
		fmt.Println("\nDry run: nothing was written to the database.")
		return nil
	}

	// ==========================================================================
	// STEP 4: BUILD AND WRITE THE SCRIPT
	// ==========================================================================

	script := sqlwriter.Build(result.Set, dialect, sqlwriter.Options{Truncate: cfg.Truncate})
	report.SkippedLines = script.SkippedLines
	if script.SkippedLines > 0 {
		log.Warn("lines without a stored batch skipped", "lines", script.SkippedLines)
	}

	scriptPath := cfg.SQLOutput
	if scriptPath == "" {
		name := utils.GenerateOutputFileName(scriptName, map[string]string{"uuid": runID}, ".sql")
		scriptPath = filepath.Join(cfg.OutputDir, name)
	}

	scriptPath, err = utils.WriteScript(scriptPath, script.Text())
	if err != nil {
		return err
	}
	report.ScriptPath = scriptPath
	log.Info("script written", "path", scriptPath, "statements", len(script.Statements))

	if skipExecute {
		fmt.Printf("\nScript written to %s (not executed).\n", scriptPath)
		return nil
	}

	// ==========================================================================
	// STEP 5: EXECUTE
	// ==========================================================================

	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}

	timeout := cfg.Database.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	executor, err := store.Connect(connectCtx, dialect.Name, dsn)
	if err != nil {
		return fmt.Errorf("%w (script kept at %s)", err, scriptPath)
	}
	defer executor.Close()

	if err := executor.Execute(ctx, script); err != nil {
		return fmt.Errorf("%w (script kept at %s)", err, scriptPath)
	}
	report.Executed = true

	fmt.Println("\n=== Import Complete ===")
	fmt.Printf("Inventory rows:  %d\n", script.Inventory)
	fmt.Printf("Usage batches:   %d\n", script.Batches)
	fmt.Printf("Usage lines:     %d\n", script.Lines)
	fmt.Printf("Script:          %s\n", scriptPath)

	return nil
}

// fillReport copies the parse counts into the run report.
func fillReport(report *utils.RunReport, result *converter.Result) {
	stats := result.Stats
	report.InventorySheet = result.InventorySheet
	report.InventoryRows = stats.InventoryRows
	report.MissingSheets = result.MissingSheets
	report.Batches = stats.Batches
	report.Lines = stats.Lines
	report.DroppedBatches = stats.DroppedBatches
	report.DroppedLines = stats.DroppedLines

	for _, sheet := range result.Sheets {
		report.Categories = append(report.Categories, utils.CategoryReport{
			Category:       string(sheet.Category),
			Sheet:          sheet.SheetName,
			Batches:        len(sheet.Batches),
			Lines:          len(sheet.Lines),
			DroppedBatches: sheet.DroppedBatches,
		})
	}
}

// finishRun writes the report and metrics files. Failures are logged, not
// returned, so they never hide the run's own error.
func finishRun(log *slog.Logger, report *utils.RunReport, recorder *metrics.Recorder, runErr error) {
	report.FinishedAt = time.Now()
	if runErr != nil {
		report.Error = runErr.Error()
	}

	if cfg.ReportFile != "" {
		if err := utils.WriteReport(cfg.ReportFile, report); err != nil {
			log.Error("failed to write report", "error", err)
		} else {
			log.Info("report written", "path", cfg.ReportFile)
		}
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("failed to write metrics", "error", err)
		} else {
			log.Info("metrics written", "path", cfg.MetricsFile)
		}
	}
}

// printCounts prints the parse summary.
func printCounts(result *converter.Result) {
	stats := result.Stats

	fmt.Println("\n=== Parse Summary ===")
	fmt.Printf("Inventory sheet: %s\n", result.InventorySheet)
	fmt.Printf("Inventory rows:  %d\n", stats.InventoryRows)

	for _, s := range types.UsageSheets {
		c, ok := stats.PerCategory[s.Category]
		if !ok {
			continue
		}
		fmt.Printf("  %-16s %4d batches, %4d lines (%d dropped)\n", s.Category, c.Batches, c.Lines, c.DroppedBatches)
	}

	fmt.Printf("Usage batches:   %d\n", stats.Batches)
	fmt.Printf("Usage lines:     %d\n", stats.Lines)
	for _, name := range result.MissingSheets {
		fmt.Printf("Missing sheet:   %s\n", name)
	}
	fmt.Printf("Parse time:      %s\n", stats.ProcessingTime)
}

func modeName(truncate bool) string {
	if truncate {
		return "truncate"
	}
	return "append"
}
