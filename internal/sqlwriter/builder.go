// =============================================================================
// Gem Stock Importer - Persistence Command Builder
// =============================================================================
//
// Builds the single transactional script that loads an ImportSet into the
// three destination tables.
//
// STATEMENT ORDER:
//   1. DELETE lines, batches, inventory (truncate mode only)
//   2. One INSERT per inventory record
//   3. One INSERT per batch with an explicit id
//      (wrapped in SET IDENTITY_INSERT ON/OFF for mssql)
//   4. One INSERT per line, referencing its batch's stored id
//
// Script.Statements holds the body above. Script.Text adds the dialect's
// transaction envelope and is what gets written to the .sql file.
//
// =============================================================================

package sqlwriter

import (
	"strings"
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
)

// Column lists of the destination tables, in insert order.
var (
	InventoryColumns = []string{
		"source_sheet", "source_row", "gemstone_number", "gemstone_number_text", "gemstone_type",
		"weight_pcs_raw", "shape", "price_per_ct_raw", "price_per_piece_raw", "buying_date",
		"buying_date_raw", "balance_pcs", "balance_ct", "use_date", "use_date_raw", "owner_name",
		"parsed_weight_ct", "parsed_quantity_pcs", "parsed_price_per_ct", "parsed_price_per_piece",
	}

	BatchColumns = []string{
		"id", "source_sheet", "source_row", "product_category", "transaction_date",
		"transaction_date_raw", "requester_name", "product_code", "total_amount",
	}

	LineColumns = []string{
		"batch_id", "source_row", "gemstone_number", "gemstone_name", "used_pcs", "used_weight_ct",
		"unit_price_raw", "line_amount", "balance_pcs_after", "balance_ct_after", "requester_name",
	}
)

// Options controls how the script is built.
type Options struct {
	// Truncate clears the three tables first and stores batches under their
	// own ids. Without it batches get ids from AppendSeed.
	Truncate bool

	// Now is the clock used for the append seed. nil uses time.Now.
	Now func() time.Time
}

// Script is a built import script.
type Script struct {
	Dialect Dialect

	// Statements is the body, without the transaction envelope.
	Statements []string

	// BatchIDs maps batch ids in the ImportSet to stored ids.
	BatchIDs map[int]int64

	Inventory    int
	Batches      int
	Lines        int
	SkippedLines int
}

// Text returns the complete script: envelope, body, one statement per line.
func (s *Script) Text() string {
	var b strings.Builder
	for _, group := range [][]string{s.Dialect.Session, s.Dialect.Begin, s.Statements, s.Dialect.Commit} {
		for _, stmt := range group {
			b.WriteString(stmt)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Build renders the import script for set.
//
// PARAMETERS:
//   - set: The assembled records.
//   - d: Target dialect.
//   - opts: Truncate/append mode and clock.
//
// RETURNS:
//   - The Script. Lines whose batch has no stored id are counted in
//     SkippedLines and left out.
func Build(set *types.ImportSet, d Dialect, opts Options) *Script {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	script := &Script{Dialect: d}
	add := func(stmt string) {
		script.Statements = append(script.Statements, stmt)
	}

	if opts.Truncate {
		add("DELETE FROM " + d.Table(TableLines) + ";")
		add("DELETE FROM " + d.Table(TableBatches) + ";")
		add("DELETE FROM " + d.Table(TableInventory) + ";")
	}

	for i := range set.Inventory {
		add(d.insertInventory(&set.Inventory[i]))
		script.Inventory++
	}

	script.BatchIDs = AssignIdentities(set.Batches, opts.Truncate, now())

	if len(set.Batches) > 0 {
		if d.IdentityInsert {
			add("SET IDENTITY_INSERT " + d.Table(TableBatches) + " ON;")
		}
		for i := range set.Batches {
			b := &set.Batches[i]
			add(d.insertBatch(b, script.BatchIDs[b.ID]))
			script.Batches++
		}
		if d.IdentityInsert {
			add("SET IDENTITY_INSERT " + d.Table(TableBatches) + " OFF;")
		}
	}

	for i := range set.Lines {
		l := &set.Lines[i]
		id, ok := script.BatchIDs[l.BatchID]
		if !ok {
			script.SkippedLines++
			continue
		}
		add(d.insertLine(l, id))
		script.Lines++
	}

	return script
}

// =============================================================================
// INSERT STATEMENTS
// =============================================================================

func (d Dialect) insert(table string, columns []string, values []any, overriding bool) string {
	literals := make([]string, len(values))
	for i, v := range values {
		literals[i] = d.Literal(v)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.Table(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(")")
	if overriding {
		b.WriteString(" OVERRIDING SYSTEM VALUE")
	}
	b.WriteString(" VALUES (")
	b.WriteString(strings.Join(literals, ", "))
	b.WriteString(");")
	return b.String()
}

func (d Dialect) insertInventory(r *types.InventoryRecord) string {
	return d.insert(TableInventory, InventoryColumns, InventoryValues(r), false)
}

func (d Dialect) insertBatch(b *types.UsageBatch, id int64) string {
	return d.insert(TableBatches, BatchColumns, BatchValues(b, id), d.OverridingSystemValue)
}

func (d Dialect) insertLine(l *types.UsageLine, batchID int64) string {
	return d.insert(TableLines, LineColumns, LineValues(l, batchID), false)
}

// =============================================================================
// ROW VALUES
// =============================================================================
//
// The values of one row, aligned with the matching column list. Shared with
// the CSV export so both outputs carry the same columns.

// InventoryValues returns r's values in InventoryColumns order.
func InventoryValues(r *types.InventoryRecord) []any {
	return []any{
		r.SourceSheet,
		r.SourceRow,
		r.GemstoneNumber,
		r.GemstoneNumberText,
		r.GemstoneType,
		r.WeightPcsRaw,
		r.Shape,
		r.PricePerCtRaw,
		r.PricePerPieceRaw,
		r.BuyingDate,
		r.BuyingDateRaw,
		r.BalancePcs,
		r.BalanceCt,
		r.UseDate,
		r.UseDateRaw,
		r.OwnerName,
		r.ParsedWeightCt,
		r.ParsedQuantityPcs,
		r.ParsedPricePerCt,
		r.ParsedPricePerPiece,
	}
}

// BatchValues returns b's values in BatchColumns order, stored under id.
func BatchValues(b *types.UsageBatch, id int64) []any {
	return []any{
		id,
		b.SourceSheet,
		b.SourceRow,
		b.Category,
		b.TransactionDate,
		b.TransactionDateRaw,
		b.RequesterName,
		b.ProductCode,
		b.TotalAmount,
	}
}

// LineValues returns l's values in LineColumns order, pointing at batchID.
func LineValues(l *types.UsageLine, batchID int64) []any {
	return []any{
		batchID,
		l.SourceRow,
		l.GemstoneNumber,
		l.GemstoneName,
		l.UsedPcs,
		l.UsedWeightCt,
		l.UnitPriceRaw,
		l.LineAmount,
		l.BalancePcsAfter,
		l.BalanceCtAfter,
		l.RequesterName,
	}
}
