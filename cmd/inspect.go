// =============================================================================
// Gem Stock Importer - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which parses the workbook and
// prints the assembled records as JSON on stdout. Nothing is validated,
// written or executed. Logs go to stderr so the output can be piped.
//
// COMMAND USAGE:
//   gemstock inspect --excel-path stock.xlsx > parsed.json
//   gemstock inspect --excel-path stock.xlsx --relation usage_batches
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/gem-stock-importer/internal/converter"
	"github.com/ginjaninja78/gem-stock-importer/internal/types"
	"github.com/ginjaninja78/gem-stock-importer/internal/validation"
	"github.com/ginjaninja78/gem-stock-importer/internal/xlsxparser"
)

// relation limits the output to one record family.
var relation string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the parsed workbook records as JSON",
	Long: `The inspect command parses the workbook exactly like import does and prints
the inventory records, usage batches and usage lines as JSON.

Use --relation to print only one of inventory, usage_batches or usage_lines.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(
		&relation,
		"relation",
		"",
		"Print only this relation: inventory, usage_batches or usage_lines",
	)
}

func runInspect(out io.Writer) error {
	if cfg.WorkbookPath == "" {
		return fmt.Errorf("no workbook given: use --excel-path or workbook_path")
	}

	wb, err := xlsxparser.Open(cfg.WorkbookPath)
	if err != nil {
		return err
	}

	result, err := converter.New(logger).Run(wb)
	if err != nil {
		return fmt.Errorf("failed to parse workbook: %w", err)
	}

	payload, err := selectRelation(result.Set, relation)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}

func selectRelation(set *types.ImportSet, name string) (any, error) {
	switch name {
	case "":
		return set, nil
	case validation.RelationInventory:
		return set.Inventory, nil
	case validation.RelationBatches:
		return set.Batches, nil
	case validation.RelationLines:
		return set.Lines, nil
	}
	return nil, fmt.Errorf("unknown relation %q", name)
}
