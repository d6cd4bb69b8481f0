// =============================================================================
// Gem Stock Importer - Inventory Sheet Reader
// =============================================================================
//
// Reads the stock sheet (always the first sheet of the workbook) into
// InventoryRecords.
//
// SHEET LAYOUT (Expected Columns):
//
//   | A      | B    | C          | D     | E        | F           | G           | H           | I          | J        | K     |
//   |--------|------|------------|-------|----------|-------------|-------------|-------------|------------|----------|-------|
//   | No.    | Type | Weight/Pcs | Shape | Price/ct | Price/piece | Buying date | Balance pcs | Balance ct | Use date | Owner |
//
//   Rows 1-2 are titles and headers; data starts on row 3.
//
// ERROR HANDLING:
//   No cell ever rejects a row. Malformed values become nil fields and the
//   raw text is kept wherever the record has a raw/parsed pair.
//
// =============================================================================

package converter

import (
	"github.com/ginjaninja78/gem-stock-importer/internal/scalar"
	"github.com/ginjaninja78/gem-stock-importer/internal/types"
	"github.com/ginjaninja78/gem-stock-importer/internal/workbook"
)

// InventoryColumns defines which 1-based columns hold which inventory field.
//
// CUSTOMIZATION: Adjust DefaultInventoryColumns if the stock sheet layout moves.
type InventoryColumns struct {
	GemstoneNumber int
	GemstoneType   int
	WeightPcs      int
	Shape          int
	PricePerCt     int
	PricePerPiece  int
	BuyingDate     int
	BalancePcs     int
	BalanceCt      int
	UseDate        int
	Owner          int

	// DataStartRow is the first row read (1-based).
	DataStartRow int
}

// DefaultInventoryColumns returns the stock sheet layout.
func DefaultInventoryColumns() InventoryColumns {
	return InventoryColumns{
		GemstoneNumber: 1,  // Column A
		GemstoneType:   2,  // Column B
		WeightPcs:      3,  // Column C
		Shape:          4,  // Column D
		PricePerCt:     5,  // Column E
		PricePerPiece:  6,  // Column F
		BuyingDate:     7,  // Column G
		BalancePcs:     8,  // Column H
		BalanceCt:      9,  // Column I
		UseDate:        10, // Column J
		Owner:          11, // Column K
		DataStartRow:   3,
	}
}

// ReadInventory walks the sheet from DataStartRow to MaxRow and returns one
// record per row that carries any value in the eleven source columns.
func ReadInventory(sheet workbook.Sheet, columns InventoryColumns) []types.InventoryRecord {
	var records []types.InventoryRecord

	for row := columns.DataStartRow; row <= sheet.MaxRow(); row++ {
		record := readInventoryRow(sheet, row, columns)

		// Blank-row filtering.
		if !record.HasSourceValue() {
			continue
		}

		records = append(records, record)
	}

	return records
}

// readInventoryRow builds a record from a single row.
func readInventoryRow(sheet workbook.Sheet, row int, columns InventoryColumns) types.InventoryRecord {
	cell := func(col int) workbook.Value {
		return sheet.Cell(row, col)
	}

	numberCell := cell(columns.GemstoneNumber)
	weightRaw := scalar.Text(cell(columns.WeightPcs))
	priceCtRaw := scalar.Text(cell(columns.PricePerCt))
	pricePieceRaw := scalar.Text(cell(columns.PricePerPiece))

	record := types.InventoryRecord{
		SourceSheet:        sheet.Name(),
		SourceRow:          row,
		GemstoneNumber:     scalar.Integer(numberCell),
		GemstoneNumberText: scalar.Text(numberCell),
		GemstoneType:       scalar.Text(cell(columns.GemstoneType)),
		WeightPcsRaw:       weightRaw,
		Shape:              scalar.Text(cell(columns.Shape)),
		PricePerCtRaw:      priceCtRaw,
		PricePerPieceRaw:   pricePieceRaw,
		BalancePcs:         scalar.Number(cell(columns.BalancePcs)),
		BalanceCt:          scalar.Number(cell(columns.BalanceCt)),
		OwnerName:          scalar.Text(cell(columns.Owner)),
	}

	record.BuyingDate, record.BuyingDateRaw = scalar.Date(cell(columns.BuyingDate))
	record.UseDate, record.UseDateRaw = scalar.Date(cell(columns.UseDate))

	record.ParsedWeightCt, record.ParsedQuantityPcs = scalar.WeightAndPieces(weightRaw)
	if priceCtRaw != nil {
		record.ParsedPricePerCt = scalar.ParseNumber(*priceCtRaw)
	}
	if pricePieceRaw != nil {
		record.ParsedPricePerPiece = scalar.ParseNumber(*pricePieceRaw)
	}

	return record
}
