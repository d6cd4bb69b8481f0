// =============================================================================
// Gem Stock Importer - CSV Export
// =============================================================================
//
// Writes an ImportSet as three CSV files, one per destination table, so the
// parse can be reviewed in a spreadsheet before it is loaded:
//   - inventory.csv
//   - usage_batches.csv
//   - usage_lines.csv
//
// Columns match the SQL script. Blank cells stand for NULL.
//
// =============================================================================

package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/sqlwriter"
	"github.com/ginjaninja78/gem-stock-importer/internal/types"
)

// Export file names.
const (
	InventoryCSV = "inventory.csv"
	BatchesCSV   = "usage_batches.csv"
	LinesCSV     = "usage_lines.csv"
)

// ExportCSV writes the three CSV files into dir and returns their paths.
//
// Batches keep their ImportSet ids; lines reference the same ids.
func ExportCSV(dir string, set *types.ImportSet) ([]string, error) {
	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	inventory := make([][]any, len(set.Inventory))
	for i := range set.Inventory {
		inventory[i] = sqlwriter.InventoryValues(&set.Inventory[i])
	}

	batches := make([][]any, len(set.Batches))
	for i := range set.Batches {
		b := &set.Batches[i]
		batches[i] = sqlwriter.BatchValues(b, int64(b.ID))
	}

	lines := make([][]any, len(set.Lines))
	for i := range set.Lines {
		l := &set.Lines[i]
		lines[i] = sqlwriter.LineValues(l, int64(l.BatchID))
	}

	files := []struct {
		name    string
		columns []string
		rows    [][]any
	}{
		{InventoryCSV, sqlwriter.InventoryColumns, inventory},
		{BatchesCSV, sqlwriter.BatchColumns, batches},
		{LinesCSV, sqlwriter.LineColumns, lines},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSV(path, f.columns, f.rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func writeCSV(path string, columns []string, rows [][]any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, v := range row {
			record[i] = cellText(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// cellText renders a row value for CSV. nil values become empty cells.
func cellText(v any) string {
	switch t := v.(type) {
	case *string:
		if t != nil {
			return *t
		}
	case *float64:
		if t != nil {
			return strconv.FormatFloat(*t, 'f', -1, 64)
		}
	case *int64:
		if t != nil {
			return strconv.FormatInt(*t, 10)
		}
	case *time.Time:
		if t != nil {
			return t.Format("2006-01-02")
		}
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case types.Category:
		return string(t)
	}
	return ""
}
