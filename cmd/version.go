// =============================================================================
// Gem Stock Importer - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   gemstock version
//
// OUTPUT:
//   Gem Stock Importer
//   Version:    1.0.0
//   Build Date: 2026-01-01
//   Go Version: go1.25.0
//   Dialects:   mssql, postgres, mysql, sqlite
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/gem-stock-importer/internal/sqlwriter"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/gem-stock-importer/cmd.Version=1.0.0'"

// Version is the application version.
var Version = "1.0.0"

// BuildDate is the date the application was built.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, Go runtime version and supported SQL dialects.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Gem Stock Importer")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Build Date: %s\n", BuildDate)
		fmt.Printf("Go Version: %s\n", runtime.Version())
		fmt.Printf("Dialects:   %s\n", strings.Join([]string{
			sqlwriter.DialectMSSQL,
			sqlwriter.DialectPostgres,
			sqlwriter.DialectMySQL,
			sqlwriter.DialectSQLite,
		}, ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
