package converter

import "github.com/ginjaninja78/gem-stock-importer/internal/types"

// Assemble concatenates the inventory and the per-sheet usage results into one
// ImportSet. Sheet-local batch ids are renumbered 1..n across all sheets in the
// order given, and every line follows its batch.
func Assemble(inventory []types.InventoryRecord, sheets []SheetResult) *types.ImportSet {
	set := &types.ImportSet{
		Inventory: inventory,
	}

	nextID := 1
	for _, sheet := range sheets {
		remap := make(map[int]int, len(sheet.Batches))

		for _, batch := range sheet.Batches {
			remap[batch.ID] = nextID
			batch.ID = nextID
			nextID++
			set.Batches = append(set.Batches, batch)
		}

		for _, line := range sheet.Lines {
			id, ok := remap[line.BatchID]
			if !ok {
				continue
			}
			line.BatchID = id
			set.Lines = append(set.Lines, line)
		}
	}

	return set
}
