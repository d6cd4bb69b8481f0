// =============================================================================
// Gem Stock Importer - Converter Module
// =============================================================================
//
// This module orchestrates the parsing pipeline for one workbook, from the
// in-memory sheets to an assembled ImportSet.
//
// CONVERSION PIPELINE:
//   1. Read the inventory from the first sheet
//   2. Reconstruct batches and lines for every known usage sheet
//   3. Assemble the results with process-wide batch ids
//
// The pipeline performs no I/O. The workbook is loaded by xlsxparser (or
// built in memory by tests) and the ImportSet is persisted by sqlwriter and
// store.
//
// CONCURRENCY:
//   Sheets are processed sequentially. Batch ids depend on sheet order.
//
// =============================================================================

package converter

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

// ErrNoSheets is returned when the workbook has no worksheet to read the
// inventory from.
var ErrNoSheets = errors.New("workbook has no sheets")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of parsing a single workbook.
type Result struct {
	// Set holds the assembled records.
	Set *types.ImportSet

	// InventorySheet is the name of the sheet the inventory was read from.
	InventorySheet string

	// Sheets holds the per-sheet usage results before id remapping, in
	// processing order.
	Sheets []SheetResult

	// MissingSheets lists usage sheet names the workbook does not contain.
	MissingSheets []string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	InventoryRows int
	Batches       int
	Lines         int

	// DroppedBatches counts batches removed by the post-pass.
	DroppedBatches int
	DroppedLines   int

	// PerCategory breaks Batches and Lines down by usage category.
	PerCategory map[types.Category]CategoryStats

	// ProcessingTime is the time taken to parse the workbook.
	ProcessingTime time.Duration
}

// CategoryStats counts what one usage sheet contributed.
type CategoryStats struct {
	Batches        int
	Lines          int
	DroppedBatches int
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter parses workbooks into ImportSets.
type Converter struct {
	logger *slog.Logger

	inventoryColumns InventoryColumns
	usageColumns     UsageColumns
	usageSheets      []types.UsageSheet
}

// New creates a Converter with the default sheet layouts.
//
// PARAMETERS:
//   - logger: Destination for progress messages. nil uses slog.Default().
//
// RETURNS:
//   - A new Converter instance.
func New(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		logger:           logger,
		inventoryColumns: DefaultInventoryColumns(),
		usageColumns:     DefaultUsageColumns(),
		usageSheets:      types.UsageSheets,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the parsing pipeline for the workbook.
//
// RETURNS:
//   - A Result with the assembled ImportSet.
//   - ErrNoSheets if there is no sheet to read the inventory from.
func (c *Converter) Run(wb workbook.Workbook) (*Result, error) {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: INVENTORY
	// =========================================================================
	// The stock sheet is the first sheet whatever its name.

	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}

	inventorySheet, ok := wb.Sheet(names[0])
	if !ok {
		return nil, ErrNoSheets
	}

	inventory := ReadInventory(inventorySheet, c.inventoryColumns)
	c.logger.Debug("read inventory", "sheet", inventorySheet.Name(), "records", len(inventory))

	result := &Result{
		InventorySheet: inventorySheet.Name(),
		Stats: ProcessingStats{
			InventoryRows: len(inventory),
			PerCategory:   make(map[types.Category]CategoryStats, len(c.usageSheets)),
		},
	}

	// =========================================================================
	// STEP 2: USAGE SHEETS
	// =========================================================================

	for _, usage := range c.usageSheets {
		sheet, ok := wb.Sheet(usage.SheetName)
		if !ok {
			c.logger.Warn("usage sheet not found, skipping", "sheet", usage.SheetName)
			result.MissingSheets = append(result.MissingSheets, usage.SheetName)
			continue
		}

		sheetResult := ReconstructUsage(sheet, usage.Category, c.usageColumns)
		result.Sheets = append(result.Sheets, sheetResult)

		stats := result.Stats.PerCategory[usage.Category]
		stats.Batches += len(sheetResult.Batches)
		stats.Lines += len(sheetResult.Lines)
		stats.DroppedBatches += sheetResult.DroppedBatches
		result.Stats.PerCategory[usage.Category] = stats

		result.Stats.DroppedBatches += sheetResult.DroppedBatches
		result.Stats.DroppedLines += sheetResult.DroppedLines

		c.logger.Debug("reconstructed usage sheet",
			"sheet", usage.SheetName,
			"category", usage.Category,
			"batches", len(sheetResult.Batches),
			"lines", len(sheetResult.Lines),
			"dropped_batches", sheetResult.DroppedBatches,
		)
	}

	// =========================================================================
	// STEP 3: ASSEMBLE
	// =========================================================================

	result.Set = Assemble(inventory, result.Sheets)
	result.Stats.Batches = len(result.Set.Batches)
	result.Stats.Lines = len(result.Set.Lines)
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info("parsed workbook",
		"inventory", result.Stats.InventoryRows,
		"batches", result.Stats.Batches,
		"lines", result.Stats.Lines,
		"duration", result.Stats.ProcessingTime,
	)

	return result, nil
}
