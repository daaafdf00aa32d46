package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Cells returns the number of cells in a grid of this size.
func (s Size) Cells() int { return s.W * s.H }

// Change records a single cell whose value differs from the previous
// generation.
type Change struct {
	Index  int
	Status uint8
}

// CellUpdate is the row/column form of a Change handed to renderers.
type CellUpdate struct {
	Row    int
	Col    int
	Status uint8
}

// Update converts a flat-index change into row/column coordinates.
func (s Size) Update(c Change) CellUpdate {
	return CellUpdate{Row: c.Index / s.W, Col: c.Index % s.W, Status: c.Status}
}

// Updates converts a change list, preserving order. The result reuses dst when
// it has enough capacity.
func (s Size) Updates(dst []CellUpdate, changes []Change) []CellUpdate {
	dst = dst[:0]
	for _, c := range changes {
		dst = append(dst, s.Update(c))
	}
	return dst
}

// Renderer draws grid state on behalf of a driver. Implementations never
// mutate the cells they are handed.
type Renderer interface {
	// Redraw repaints the whole surface.
	Redraw(size Size, cellSize int, cells []uint8)
	// RedrawChanges repaints only the listed cells.
	RedrawChanges(cellSize int, updates []CellUpdate)
}
