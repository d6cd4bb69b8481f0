// =============================================================================
// Gem Stock Importer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (gemstock)
//   ├── importCmd  (gemstock import)
//   ├── inspectCmd (gemstock inspect)
//   └── versionCmd (gemstock version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --excel-path, --dialect)
//   2. Loading .env, the config file and GEMSTOCK_* environment variables
//   3. Setting up logging
//
//   Precedence, highest first: flags, environment, config file, defaults.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/gem-stock-importer/internal/config"
	"github.com/ginjaninja78/gem-stock-importer/internal/logging"
	"github.com/ginjaninja78/gem-stock-importer/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// v is the viper instance flags are bound to.
var v = viper.New()

// cfg and logger are set by PersistentPreRunE before any command runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gemstock",
	Short: "Gem Stock Importer - Load the gem stock workbook into the stock database",
	Long: `Gem Stock Importer reads the gem stock workbook (one inventory sheet plus
one usage sheet per product category) and loads it into three tables:
inventory items, usage batches and usage lines.

Key Features:
  - Tolerant cell parsing (placeholders, numeric d/m/y dates, "3.2ct/2pcs")
  - Usage batch reconstruction from header and continuation rows
  - One transactional script per import, replace or append mode
  - SQL Server, PostgreSQL, MySQL and SQLite targets
  - CSV exports, YAML run reports and Prometheus textfile metrics

Example Usage:
  gemstock import --excel-path stock.xlsx                  # Replace the tables
  gemstock import --excel-path stock.xlsx --no-truncate    # Append
  gemstock import --excel-path stock.xlsx --dry-run        # Parse only
  gemstock inspect --excel-path stock.xlsx                 # Print records as JSON`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	flags.BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	flags.String("excel-path", "", "Path to the gem stock workbook (.xlsx)")
	flags.String("dialect", "", "Target SQL dialect: mssql, postgres, mysql or sqlite")
	flags.String("schema", "", "Table schema prefix (default dbo for mssql)")

	cobra.CheckErr(v.BindPFlag("workbook_path", flags.Lookup("excel-path")))
	cobra.CheckErr(v.BindPFlag("dialect", flags.Lookup("dialect")))
	cobra.CheckErr(v.BindPFlag("schema", flags.Lookup("schema")))
}

// initConfig loads .env, the config file and the environment, then sets up
// logging.
func initConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// A config file named explicitly must exist.
	loaded, err := config.Load(v, cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger = logging.Setup(level, cfg.Logging.Format)

	if used := v.ConfigFileUsed(); used != "" && utils.FileExists(used) {
		logger.Debug("configuration loaded", "file", used)
	}

	return nil
}
