// =============================================================================
// Gem Stock Importer - Usage Batch Reconstructor
// =============================================================================
//
// Each product category has its own usage sheet. A usage transaction (batch)
// occupies one header row followed by zero or more continuation rows, and the
// only reliable signal that a new transaction starts is a product code.
//
// SHEET LAYOUT (Expected Columns):
//
//   | A    | B         | C            | D   | E         | F        | G       | H          | I      | J     | K           | L          |
//   |------|-----------|--------------|-----|-----------|----------|---------|------------|--------|-------|-------------|------------|
//   | Date | Requester | Product code | No. | Item name | Used pcs | Used ct | Unit price | Amount | Total | Balance pcs | Balance ct |
//
// STATE MACHINE:
//   One open batch at most. A product code closes the open batch and opens a
//   new one; other marker rows either open a batch (when none is open) or fill
//   in its missing fields. Line content is always attached to the open batch.
//
// =============================================================================

package converter

import (
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/scalar"
	"github.com/ginjaninja78/gem-stock-importer/internal/types"
	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

// UsageColumns defines the 1-based column positions of a usage sheet.
type UsageColumns struct {
	Date            int
	Requester       int
	ProductCode     int
	GemstoneNumber  int
	GemstoneName    int
	UsedPcs         int
	UsedWeightCt    int
	UnitPrice       int
	LineAmount      int
	TotalAmount     int
	BalancePcsAfter int
	BalanceCtAfter  int

	DataStartRow int
}

// DefaultUsageColumns returns the usage sheet layout shared by every category.
func DefaultUsageColumns() UsageColumns {
	return UsageColumns{
		Date:            1,
		Requester:       2,
		ProductCode:     3,
		GemstoneNumber:  4,
		GemstoneName:    5,
		UsedPcs:         6,
		UsedWeightCt:    7,
		UnitPrice:       8,
		LineAmount:      9,
		TotalAmount:     10,
		BalancePcsAfter: 11,
		BalanceCtAfter:  12,
		DataStartRow:    3,
	}
}

// Header labels that leak into the data area when the header block is copied
// further down a sheet. Matched exactly: "Customer" is a real requester.
var (
	requesterHeaderLabels = map[string]bool{"ลูกค้า": true, "customer": true}
	itemNameHeaderLabels  = map[string]bool{"ชื่อพลอย": true}
)

// SheetResult is what the reconstructor produced for one usage sheet.
// Batch ids are local to the sheet and start at 1.
type SheetResult struct {
	SheetName string
	Category  types.Category
	Batches   []types.UsageBatch
	Lines     []types.UsageLine

	// Counts of what the post-pass removed.
	DroppedBatches int
	DroppedLines   int
}

// usageRow is one row after every column went through the scalar normalizer.
type usageRow struct {
	index int

	date            *time.Time
	dateRaw         *string
	requester       *string
	productCode     *string
	gemstoneNumber  *int64
	gemstoneName    *string
	usedPcs         *float64
	usedWeightCt    *float64
	unitPriceRaw    *string
	lineAmount      *float64
	totalAmount     *float64
	balancePcsAfter *float64
	balanceCtAfter  *float64
}

func readUsageRow(sheet workbook.Sheet, row int, columns UsageColumns) usageRow {
	cell := func(col int) workbook.Value {
		return sheet.Cell(row, col)
	}

	r := usageRow{
		index:           row,
		requester:       scalar.Text(cell(columns.Requester)),
		productCode:     scalar.Text(cell(columns.ProductCode)),
		gemstoneNumber:  scalar.Integer(cell(columns.GemstoneNumber)),
		gemstoneName:    scalar.Text(cell(columns.GemstoneName)),
		usedPcs:         scalar.Number(cell(columns.UsedPcs)),
		usedWeightCt:    scalar.Number(cell(columns.UsedWeightCt)),
		unitPriceRaw:    scalar.Text(cell(columns.UnitPrice)),
		lineAmount:      scalar.Number(cell(columns.LineAmount)),
		totalAmount:     scalar.Number(cell(columns.TotalAmount)),
		balancePcsAfter: scalar.Number(cell(columns.BalancePcsAfter)),
		balanceCtAfter:  scalar.Number(cell(columns.BalanceCtAfter)),
	}
	r.date, r.dateRaw = scalar.Date(cell(columns.Date))

	return r
}

// isHeaderRepeat reports whether the row is a copy of the sheet header.
func (r *usageRow) isHeaderRepeat() bool {
	if r.requester != nil && requesterHeaderLabels[*r.requester] &&
		r.productCode == nil && r.gemstoneName == nil {
		return true
	}
	return r.gemstoneName != nil && itemNameHeaderLabels[*r.gemstoneName]
}

// hasLine reports whether the row describes a consumed item.
func (r *usageRow) hasLine() bool {
	return r.gemstoneNumber != nil ||
		r.gemstoneName != nil ||
		r.usedPcs != nil ||
		r.usedWeightCt != nil ||
		r.unitPriceRaw != nil ||
		r.lineAmount != nil
}

// hasBatchMarker reports whether the row carries transaction-level fields.
// Only a parsed date counts; raw date text on its own is not a marker.
func (r *usageRow) hasBatchMarker() bool {
	return r.productCode != nil || r.totalAmount != nil || r.date != nil
}

// =============================================================================
// RECONSTRUCTOR
// =============================================================================

// reconstructor holds the state machine for one sheet.
type reconstructor struct {
	sheetName string
	category  types.Category

	current *types.UsageBatch
	nextID  int

	batches []types.UsageBatch
	lines   []types.UsageLine
}

func newReconstructor(sheetName string, category types.Category) *reconstructor {
	return &reconstructor{
		sheetName: sheetName,
		category:  category,
		nextID:    1,
	}
}

// flush appends the open batch to the output and clears it.
func (rc *reconstructor) flush() {
	if rc.current == nil {
		return
	}
	rc.batches = append(rc.batches, *rc.current)
	rc.current = nil
}

// step feeds one normalized row through the state machine.
func (rc *reconstructor) step(r usageRow) {
	if r.isHeaderRepeat() {
		return
	}

	hasLine := r.hasLine()
	hasMarker := r.hasBatchMarker()
	if !hasLine && !hasMarker {
		return
	}

	// A product code always starts a new transaction.
	if r.productCode != nil {
		rc.flush()
	}

	if rc.current == nil {
		rc.open(r)
	} else {
		rc.merge(r)
	}

	if hasLine {
		rc.lines = append(rc.lines, types.UsageLine{
			BatchID:         rc.current.ID,
			SourceRow:       r.index,
			GemstoneNumber:  r.gemstoneNumber,
			GemstoneName:    r.gemstoneName,
			UsedPcs:         r.usedPcs,
			UsedWeightCt:    r.usedWeightCt,
			UnitPriceRaw:    r.unitPriceRaw,
			LineAmount:      r.lineAmount,
			BalancePcsAfter: r.balancePcsAfter,
			BalanceCtAfter:  r.balanceCtAfter,
			RequesterName:   r.requester,
		})
	}
}

// open starts a batch seeded from the row.
func (rc *reconstructor) open(r usageRow) {
	rc.current = &types.UsageBatch{
		ID:                 rc.nextID,
		SourceSheet:        rc.sheetName,
		SourceRow:          r.index,
		Category:           rc.category,
		TransactionDate:    r.date,
		TransactionDateRaw: r.dateRaw,
		RequesterName:      r.requester,
		ProductCode:        r.productCode,
		TotalAmount:        r.totalAmount,
	}
	rc.nextID++
}

// merge fills the open batch's empty fields from a continuation row. The
// total is the exception: the latest non-nil total wins.
func (rc *reconstructor) merge(r usageRow) {
	b := rc.current

	if b.TransactionDate == nil && r.date != nil {
		b.TransactionDate = r.date
		b.TransactionDateRaw = r.dateRaw
	}
	if b.RequesterName == nil && r.requester != nil {
		b.RequesterName = r.requester
	}
	if b.ProductCode == nil && r.productCode != nil {
		b.ProductCode = r.productCode
	}
	if r.totalAmount != nil {
		b.TotalAmount = r.totalAmount
	}
}

// finish closes the open batch and runs the post-pass: batches without lines,
// product code and total are dropped together with any line that still
// references them.
func (rc *reconstructor) finish() SheetResult {
	rc.flush()

	result := SheetResult{
		SheetName: rc.sheetName,
		Category:  rc.category,
	}

	lineCount := make(map[int]int, len(rc.batches))
	for _, line := range rc.lines {
		lineCount[line.BatchID]++
	}

	kept := make(map[int]bool, len(rc.batches))
	for _, batch := range rc.batches {
		if lineCount[batch.ID] == 0 && batch.ProductCode == nil && batch.TotalAmount == nil {
			result.DroppedBatches++
			continue
		}
		kept[batch.ID] = true
		result.Batches = append(result.Batches, batch)
	}

	for _, line := range rc.lines {
		if !kept[line.BatchID] {
			result.DroppedLines++
			continue
		}
		result.Lines = append(result.Lines, line)
	}

	return result
}

// ReconstructUsage groups the rows of one usage sheet into batches and lines.
//
// PARAMETERS:
//   - sheet: The usage sheet
//   - category: Category recorded on every batch
//   - columns: Column layout, normally DefaultUsageColumns()
//
// RETURNS:
//   - SheetResult with sheet-local batch ids
func ReconstructUsage(sheet workbook.Sheet, category types.Category, columns UsageColumns) SheetResult {
	rc := newReconstructor(sheet.Name(), category)

	for row := columns.DataStartRow; row <= sheet.MaxRow(); row++ {
		rc.step(readUsageRow(sheet, row, columns))
	}

	return rc.finish()
}
