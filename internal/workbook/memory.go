package workbook

// MemorySheet is a Sheet held entirely in memory.
type MemorySheet struct {
	name   string
	cells  map[int]map[int]Value
	maxRow int
}

// NewMemorySheet creates an empty sheet.
func NewMemorySheet(name string) *MemorySheet {
	return &MemorySheet{
		name:  name,
		cells: make(map[int]map[int]Value),
	}
}

// Name implements Sheet.
func (s *MemorySheet) Name() string { return s.name }

// MaxRow implements Sheet.
func (s *MemorySheet) MaxRow() int { return s.maxRow }

// Cell implements Sheet.
func (s *MemorySheet) Cell(row, col int) Value {
	if r, ok := s.cells[row]; ok {
		return r[col]
	}
	return Value{}
}

// Set stores a value at (row, col). Blank values are not stored but still
// extend MaxRow, mirroring a formatted-but-empty row in a real file.
func (s *MemorySheet) Set(row, col int, v Value) *MemorySheet {
	if row < 1 || col < 1 {
		return s
	}
	if row > s.maxRow {
		s.maxRow = row
	}
	if v.IsBlank() {
		return s
	}
	r, ok := s.cells[row]
	if !ok {
		r = make(map[int]Value)
		s.cells[row] = r
	}
	r[col] = v
	return s
}

// SetRow stores a whole row starting at column 1. Values are converted with Of.
func (s *MemorySheet) SetRow(row int, values ...any) *MemorySheet {
	if row > s.maxRow {
		s.maxRow = row
	}
	for i, x := range values {
		s.Set(row, i+1, Of(x))
	}
	return s
}

// MemoryWorkbook is a Workbook held entirely in memory.
type MemoryWorkbook struct {
	order  []string
	sheets map[string]*MemorySheet
}

// NewMemoryWorkbook creates a workbook from sheets in tab order.
func NewMemoryWorkbook(sheets ...*MemorySheet) *MemoryWorkbook {
	wb := &MemoryWorkbook{sheets: make(map[string]*MemorySheet)}
	for _, s := range sheets {
		wb.Add(s)
	}
	return wb
}

// Add appends a sheet. A sheet with an existing name replaces the old one in place.
func (wb *MemoryWorkbook) Add(s *MemorySheet) {
	if _, exists := wb.sheets[s.name]; !exists {
		wb.order = append(wb.order, s.name)
	}
	wb.sheets[s.name] = s
}

// SheetNames implements Workbook.
func (wb *MemoryWorkbook) SheetNames() []string {
	names := make([]string, len(wb.order))
	copy(names, wb.order)
	return names
}

// Sheet implements Workbook.
func (wb *MemoryWorkbook) Sheet(name string) (Sheet, bool) {
	s, ok := wb.sheets[name]
	if !ok {
		return nil, false
	}
	return s, true
}
