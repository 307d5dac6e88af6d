package dataprocessing

// PageSize is the number of raw rows served per request
const PageSize = 5

// Paginator serves consecutive windows of raw rows from one table. The cursor
// is its only state and is not shared between tables or runs.
type Paginator struct {
	table  *TripTable
	cursor int
}

// NewPaginator starts a paginator at the first row of t
func NewPaginator(t *TripTable) *Paginator {
	return &Paginator{table: t}
}

// Next returns up to PageSize records from the cursor and advances the cursor
// by PageSize whether or not that many were available. Past the end it
// returns an empty slice.
func (p *Paginator) Next() []TripRecord {
	rows := p.table.Window(p.cursor, PageSize)
	p.cursor += PageSize
	return rows
}

// Cursor returns the position of the next window
func (p *Paginator) Cursor() int {
	return p.cursor
}

// Exhausted reports whether Next would return no rows
func (p *Paginator) Exhausted() bool {
	return p.cursor >= p.table.Len()
}

// Page returns the page-th window (0-based) of t without any cursor state
func Page(t *TripTable, page int) []TripRecord {
	if page < 0 {
		return []TripRecord{}
	}
	return t.Window(page*PageSize, PageSize)
}
