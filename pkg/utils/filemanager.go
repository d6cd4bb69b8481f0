// =============================================================================
// Gem Stock Importer - File Manager Utility
// =============================================================================
//
// This module provides file utilities for the importer, including:
//   - Output file naming
//   - Writing generated SQL scripts
//   - Error log generation for validation findings
//
// OUTPUT LOCATIONS:
//   - Scripts go to the configured output directory unless an explicit path
//     is given
//   - Error logs are created next to the scripts
//   - Parent directories are created on demand
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/gem-stock-importer/internal/validation"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID (or params["uuid"] when given)
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - params: Extra placeholder values, keyed without braces.
//   - ext: Extension forced onto the result, e.g. ".sql".
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "stock-import-{uuid}"
//   ext:    ".sql"
//   output: "stock-import-a1b2c3d4-e5f6-7890-abcd-ef1234567890.sql"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// SCRIPT OUTPUT
// =============================================================================

// WriteScript writes a SQL script as UTF-8 and returns its absolute path.
func WriteScript(path, text string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if err := EnsureDir(filepath.Dir(abs)); err != nil {
		return "", err
	}

	if err := os.WriteFile(abs, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write script: %w", err)
	}

	return abs, nil
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// WriteErrorLog writes validation findings to a text log in outputDir.
//
// PARAMETERS:
//   - findings: The validation findings to write.
//   - workbook: The workbook the findings came from.
//   - outputDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the error log file, empty when there is nothing to write.
//   - An error if writing fails.
func WriteErrorLog(findings []*validation.ValidationError, workbook, outputDir string) (string, error) {
	if len(findings) == 0 {
		return "", nil
	}

	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Gem Stock Importer - Validation Log\n"+
		"Generated: %s\n"+
		"Workbook:  %s\n"+
		"Findings:  %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		workbook,
		len(findings))

	for i, f := range findings {
		fmt.Fprintf(writer, "Finding #%d\n"+
			"  Severity:       %s\n"+
			"  Relation:       %s\n"+
			"  Message:        %s\n",
			i+1,
			f.Severity,
			f.Relation,
			f.Message)

		if f.SourceSheet != "" {
			fmt.Fprintf(writer, "  Sheet:          %s\n", f.SourceSheet)
		}
		if f.SourceRow > 0 {
			fmt.Fprintf(writer, "  Row Number:     %d\n", f.SourceRow)
		}
		if f.Field != "" {
			fmt.Fprintf(writer, "  Field:          %s\n", f.Field)
		}
		if f.Value != "" {
			fmt.Fprintf(writer, "  Value:          %s\n", f.Value)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Validation Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}
