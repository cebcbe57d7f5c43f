package labels

// Entry is one item to print.
type Entry struct {
	// Content is the payload encoded into the QR glyph.
	Content string `json:"content"`
	// Image references a pre-rendered QR image in the asset store. When set it
	// takes precedence over Content.
	Image string `json:"image,omitempty"`
	// Name is the primary text printed under the glyph.
	Name string `json:"name"`
	// Category is the optional secondary text.
	Category string `json:"category,omitempty"`
}

// Cell is one grid position on a page. Blank cells have EntryIndex -1.
type Cell struct {
	Row        int
	Col        int
	EntryIndex int
	Entry      *Entry
}

func (c Cell) Blank() bool {
	return c.Entry == nil
}

// Page is one sheet worth of cells in row-major order.
type Page struct {
	Number int
	Cells  []Cell
}

// Filled counts the cells that carry an entry.
func (p Page) Filled() int {
	n := 0
	for _, c := range p.Cells {
		if !c.Blank() {
			n++
		}
	}
	return n
}

// TotalPages is ceil(entries / perPage).
func TotalPages(entries, perPage int) int {
	if entries <= 0 || perPage <= 0 {
		return 0
	}
	return (entries + perPage - 1) / perPage
}

// Paginate slices entries into pages of t.LabelsPerPage() cells, filling row
// 0 first, left to right. The last page keeps its unused cells blank.
func Paginate(entries []Entry, t Template) []Page {
	perPage := t.LabelsPerPage()
	total := TotalPages(len(entries), perPage)
	pages := make([]Page, 0, total)

	for p := 0; p < total; p++ {
		page := Page{Number: p + 1, Cells: make([]Cell, perPage)}
		for i := 0; i < perPage; i++ {
			cell := Cell{Row: i / t.Cols, Col: i % t.Cols, EntryIndex: -1}
			if idx := p*perPage + i; idx < len(entries) {
				cell.EntryIndex = idx
				cell.Entry = &entries[idx]
			}
			page.Cells[i] = cell
		}
		pages = append(pages, page)
	}
	return pages
}
