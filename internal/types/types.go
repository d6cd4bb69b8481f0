// =============================================================================
// Gem Stock Importer - Shared Types
// =============================================================================
//
// This package contains the record types produced by the parsing engine and
// consumed by the persistence, validation and export layers. Keeping them in a
// leaf package avoids import cycles between:
//   - converter
//   - validation
//   - sqlwriter
//   - pkg/utils
//
// NULLABILITY:
//   Every optional field is a pointer. nil means the source cell was blank,
//   a placeholder, or failed to parse. Where a parsed value can fail while the
//   source text is still useful, both are kept (e.g. BuyingDate/BuyingDateRaw).
//
// =============================================================================

package types

import "time"

// =============================================================================
// CATEGORIES
// =============================================================================

// Category is the product category a usage sheet belongs to.
type Category string

const (
	CategoryEarrings       Category = "earrings"
	CategoryNecklace       Category = "necklace"
	CategoryBracelet       Category = "bracelet"
	CategoryBrooch         Category = "brooch"
	CategoryClipsCufflinks Category = "clips_cufflinks"
	CategoryRing           Category = "ring"
)

// UsageSheet binds a worksheet name to its category.
type UsageSheet struct {
	SheetName string
	Category  Category
}

// UsageSheets lists the usage sheets in processing order. Sheet names are
// matched exactly, including the workbook's own spelling ("Neckelet",
// "Clips+Cuffinks").
var UsageSheets = []UsageSheet{
	{SheetName: "Earrings", Category: CategoryEarrings},
	{SheetName: "Neckelet", Category: CategoryNecklace},
	{SheetName: "Bracelet", Category: CategoryBracelet},
	{SheetName: "Brooch", Category: CategoryBrooch},
	{SheetName: "Clips+Cuffinks", Category: CategoryClipsCufflinks},
	{SheetName: "Ring", Category: CategoryRing},
}

// CategoryForSheet returns the category for an exact sheet name.
func CategoryForSheet(name string) (Category, bool) {
	for _, s := range UsageSheets {
		if s.SheetName == name {
			return s.Category, true
		}
	}
	return "", false
}

// =============================================================================
// INVENTORY
// =============================================================================

// InventoryRecord is one row of the stock sheet.
//
// SourceSheet and SourceRow form the natural key and never change after the
// record is created.
type InventoryRecord struct {
	SourceSheet string `json:"source_sheet"`
	SourceRow   int    `json:"source_row"`

	// GemstoneNumber is the catalogue number when it is a clean integer;
	// GemstoneNumberText keeps the cell text either way.
	GemstoneNumber     *int64  `json:"gemstone_number"`
	GemstoneNumberText *string `json:"gemstone_number_text"`

	GemstoneType     *string `json:"gemstone_type"`
	WeightPcsRaw     *string `json:"weight_pcs_raw"`
	Shape            *string `json:"shape"`
	PricePerCtRaw    *string `json:"price_per_ct_raw"`
	PricePerPieceRaw *string `json:"price_per_piece_raw"`

	BuyingDate    *time.Time `json:"buying_date"`
	BuyingDateRaw *string    `json:"buying_date_raw"`

	BalancePcs *float64 `json:"balance_pcs"`
	BalanceCt  *float64 `json:"balance_ct"`

	UseDate    *time.Time `json:"use_date"`
	UseDateRaw *string    `json:"use_date_raw"`

	OwnerName *string `json:"owner_name"`

	// Derived by the composite-field extractor and the number parser. They do
	// not replace the raw fields above.
	ParsedWeightCt      *float64 `json:"parsed_weight_ct"`
	ParsedQuantityPcs   *float64 `json:"parsed_quantity_pcs"`
	ParsedPricePerCt    *float64 `json:"parsed_price_per_ct"`
	ParsedPricePerPiece *float64 `json:"parsed_price_per_piece"`
}

// HasSourceValue reports whether any of the eleven source columns produced a
// value. Records without one are never emitted.
func (r *InventoryRecord) HasSourceValue() bool {
	return r.GemstoneNumberText != nil ||
		r.GemstoneType != nil ||
		r.WeightPcsRaw != nil ||
		r.Shape != nil ||
		r.PricePerCtRaw != nil ||
		r.PricePerPieceRaw != nil ||
		r.BuyingDate != nil || r.BuyingDateRaw != nil ||
		r.BalancePcs != nil ||
		r.BalanceCt != nil ||
		r.UseDate != nil || r.UseDateRaw != nil ||
		r.OwnerName != nil
}

// =============================================================================
// USAGE
// =============================================================================

// UsageBatch is one usage transaction: a header row plus its continuation rows.
type UsageBatch struct {
	// ID is sheet-local while a sheet is parsed and process-wide after assembly.
	ID int `json:"id"`

	SourceSheet string   `json:"source_sheet"`
	SourceRow   int      `json:"source_row"`
	Category    Category `json:"product_category"`

	TransactionDate    *time.Time `json:"transaction_date"`
	TransactionDateRaw *string    `json:"transaction_date_raw"`

	RequesterName *string  `json:"requester_name"`
	ProductCode   *string  `json:"product_code"`
	TotalAmount   *float64 `json:"total_amount"`
}

// UsageLine is one item consumed within a batch.
type UsageLine struct {
	// BatchID refers to UsageBatch.ID in the same id space.
	BatchID   int `json:"batch_id"`
	SourceRow int `json:"source_row"`

	GemstoneNumber *int64  `json:"gemstone_number"`
	GemstoneName   *string `json:"gemstone_name"`

	UsedPcs      *float64 `json:"used_pcs"`
	UsedWeightCt *float64 `json:"used_weight_ct"`
	UnitPriceRaw *string  `json:"unit_price_raw"`
	LineAmount   *float64 `json:"line_amount"`

	BalancePcsAfter *float64 `json:"balance_pcs_after"`
	BalanceCtAfter  *float64 `json:"balance_ct_after"`

	// RequesterName is the requester seen on this row, which can differ from
	// the batch's.
	RequesterName *string `json:"requester_name"`
}

// =============================================================================
// ASSEMBLED RESULT
// =============================================================================

// ImportSet is everything parsed from one workbook, with batch ids unique
// across all usage sheets.
type ImportSet struct {
	Inventory []InventoryRecord `json:"inventory"`
	Batches   []UsageBatch      `json:"usage_batches"`
	Lines     []UsageLine       `json:"usage_lines"`
}
