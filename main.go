// =============================================================================
// Gem Stock Importer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the gem stock importer CLI. It delegates
// command execution to the cmd package.
//
// USAGE:
//   gemstock import     - Parse the workbook and load it into the database
//   gemstock inspect    - Print the parsed records as JSON
//   gemstock version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing engine, validation, script builder, executors
//   - pkg/           : Output files (scripts, reports, CSV exports)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/gem-stock-importer/cmd"
)

func main() {
	cmd.Execute()
}
