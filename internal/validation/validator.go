// =============================================================================
// Gem Stock Importer - Validation Engine
// =============================================================================
//
// This module checks an assembled ImportSet before it is persisted.
//
// VALIDATION STRATEGY:
//   Two levels of finding are produced:
//   1. Errors: structural invariants the parser guarantees. An error means a
//      bug upstream, and the import must not be executed.
//   2. Warnings: data-quality notes about the workbook itself (unparsed
//      dates, non-numeric catalogue numbers, lines without quantities).
//      Warnings never stop an import; they go to the log and the run report.
//
// ERROR HANDLING:
//   - Findings are collected, not returned one by one
//   - Each finding carries the relation, sheet, row and field it concerns
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Relation names used in findings.
const (
	RelationInventory = "inventory"
	RelationBatches   = "usage_batches"
	RelationLines     = "usage_lines"
)

// ValidationError represents a single finding.
type ValidationError struct {
	Severity Severity `yaml:"severity"`

	// Relation is the record family the finding concerns.
	Relation string `yaml:"relation"`

	SourceSheet string `yaml:"sheet"`
	SourceRow   int    `yaml:"row"`

	// Field is the record field, empty for record-level findings.
	Field string `yaml:"field,omitempty"`

	// Value is the offending raw value when there is one.
	Value string `yaml:"value,omitempty"`

	Message string `yaml:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s:%d", strings.ToUpper(string(e.Severity)), e.Relation, e.SourceSheet, e.SourceRow)
	if e.Field != "" {
		fmt.Fprintf(&b, ", field '%s'", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}
	return b.String()
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors.
	IsValid bool

	// Errors contains all findings, warnings included.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
		return
	}
	r.WarningCount++
}

// Warnings returns the warning findings.
func (r *ValidationResult) Warnings() []*ValidationError {
	return r.filter(SeverityWarning)
}

// Fatal returns the error findings.
func (r *ValidationResult) Fatal() []*ValidationError {
	return r.filter(SeverityError)
}

func (r *ValidationResult) filter(s Severity) []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == s {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks every record in the set.
//
// PARAMETERS:
//   - set: The assembled import.
//
// RETURNS:
//   - A ValidationResult. IsValid is false when any structural invariant is
//     broken.
func Validate(set *types.ImportSet) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	for i := range set.Inventory {
		validateInventory(&set.Inventory[i], result)
	}

	batches := validateBatches(set, result)

	for i := range set.Lines {
		validateLine(&set.Lines[i], batches, result)
	}

	return result
}

// validateInventory checks one inventory record.
func validateInventory(r *types.InventoryRecord, result *ValidationResult) {
	finding := func(sev Severity, field, value, msg string) {
		result.add(&ValidationError{
			Severity:    sev,
			Relation:    RelationInventory,
			SourceSheet: r.SourceSheet,
			SourceRow:   r.SourceRow,
			Field:       field,
			Value:       value,
			Message:     msg,
		})
	}

	if !r.HasSourceValue() {
		finding(SeverityError, "", "", "record has no value in any source column")
		return
	}

	if r.GemstoneNumberText != nil && r.GemstoneNumber == nil {
		finding(SeverityWarning, "gemstone_number", *r.GemstoneNumberText, "catalogue number is not an integer")
	}
	if r.BuyingDate == nil && r.BuyingDateRaw != nil {
		finding(SeverityWarning, "buying_date", *r.BuyingDateRaw, "date could not be parsed")
	}
	if r.UseDate == nil && r.UseDateRaw != nil {
		finding(SeverityWarning, "use_date", *r.UseDateRaw, "date could not be parsed")
	}
	if r.WeightPcsRaw != nil && r.ParsedWeightCt == nil && r.ParsedQuantityPcs == nil {
		finding(SeverityWarning, "weight_pcs_raw", *r.WeightPcsRaw, "no weight or quantity found")
	}
}

// validateBatches checks batch ids and the retention rule, and returns the
// source sheet of every batch id.
func validateBatches(set *types.ImportSet, result *ValidationResult) map[int]string {
	lineCount := make(map[int]int, len(set.Batches))
	for _, line := range set.Lines {
		lineCount[line.BatchID]++
	}

	seen := make(map[int]bool, len(set.Batches))
	batches := make(map[int]string, len(set.Batches))

	for i := range set.Batches {
		b := &set.Batches[i]
		finding := func(sev Severity, field, value, msg string) {
			result.add(&ValidationError{
				Severity:    sev,
				Relation:    RelationBatches,
				SourceSheet: b.SourceSheet,
				SourceRow:   b.SourceRow,
				Field:       field,
				Value:       value,
				Message:     msg,
			})
		}

		if seen[b.ID] {
			finding(SeverityError, "id", fmt.Sprint(b.ID), "batch id is not unique")
		}
		seen[b.ID] = true
		batches[b.ID] = b.SourceSheet

		if lineCount[b.ID] == 0 && b.ProductCode == nil && b.TotalAmount == nil {
			finding(SeverityError, "", "", "batch has no lines, product code or total")
		}
		if b.TransactionDate == nil && b.TransactionDateRaw != nil {
			finding(SeverityWarning, "transaction_date", *b.TransactionDateRaw, "date could not be parsed")
		}
	}

	return batches
}

// validateLine checks one usage line.
func validateLine(l *types.UsageLine, batches map[int]string, result *ValidationResult) {
	sheet, ok := batches[l.BatchID]

	finding := func(sev Severity, field, value, msg string) {
		result.add(&ValidationError{
			Severity:    sev,
			Relation:    RelationLines,
			SourceSheet: sheet,
			SourceRow:   l.SourceRow,
			Field:       field,
			Value:       value,
			Message:     msg,
		})
	}

	if !ok {
		finding(SeverityError, "batch_id", fmt.Sprint(l.BatchID), "line references a missing batch")
	}
	if l.UsedPcs == nil && l.UsedWeightCt == nil {
		finding(SeverityWarning, "used_pcs", "", "line has no used pieces or weight")
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

// FormatErrors formats findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "Validation completed with %d finding(s):\n\n", len(errors))

	for i, err := range errors {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}

	return builder.String()
}
