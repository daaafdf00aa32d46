package render

import (
	"image/color"

	"torus-life/internal/core"
)

// Palette holds the colours used to paint cells.
type Palette struct {
	Alive color.RGBA
	Dead  color.RGBA
	Line  color.RGBA
}

// DefaultPalette paints live cells black on white with a grey grid.
func DefaultPalette() Palette {
	return Palette{
		Alive: color.RGBA{A: 255},
		Dead:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Line:  color.RGBA{R: 160, G: 160, B: 170, A: 255},
	}
}

// Buffer is an RGBA pixel surface holding one cellSize*cellSize square per
// grid cell. It implements core.Renderer and is not safe for concurrent use.
type Buffer struct {
	palette Palette
	size    core.Size
	cell    int
	pix     []byte
	dirty   bool
	stale   bool
}

// NewBuffer returns an empty buffer; the first Redraw allocates it.
func NewBuffer(p Palette) *Buffer {
	return &Buffer{palette: p}
}

// Redraw repaints every cell, reallocating when the grid or cell size changed.
func (b *Buffer) Redraw(size core.Size, cellSize int, cells []uint8) {
	if cellSize <= 0 || len(cells) != size.Cells() {
		return
	}
	if size != b.size || cellSize != b.cell {
		b.size = size
		b.cell = cellSize
		b.pix = make([]byte, 4*size.Cells()*cellSize*cellSize)
	}
	for i, c := range cells {
		b.paintCell(i%size.W, i/size.W, c)
	}
	b.dirty = true
	b.stale = false
}

// RedrawChanges repaints only the listed cells. A cell size that differs from
// the last Redraw leaves the pixels untouched and marks the buffer stale until
// the next Redraw. Updates outside the grid are ignored.
func (b *Buffer) RedrawChanges(cellSize int, updates []core.CellUpdate) {
	if b.pix == nil {
		return
	}
	if cellSize != b.cell {
		b.stale = true
		return
	}
	for _, u := range updates {
		if u.Col < 0 || u.Col >= b.size.W || u.Row < 0 || u.Row >= b.size.H {
			continue
		}
		b.paintCell(u.Col, u.Row, u.Status)
	}
	if len(updates) > 0 {
		b.dirty = true
	}
}

// Stale reports whether incremental updates were dropped since the last
// Redraw because their cell size did not match the surface.
func (b *Buffer) Stale() bool { return b.stale }

// Bounds returns the surface size in pixels.
func (b *Buffer) Bounds() (w, h int) {
	return b.size.W * b.cell, b.size.H * b.cell
}

// Pixels exposes the RGBA bytes in row-major order.
func (b *Buffer) Pixels() []byte { return b.pix }

// TakeDirty reports whether the buffer changed since the last call.
func (b *Buffer) TakeDirty() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// At returns the pixel colour at (x, y).
func (b *Buffer) At(x, y int) color.RGBA {
	w, _ := b.Bounds()
	base := 4 * (y*w + x)
	return color.RGBA{R: b.pix[base], G: b.pix[base+1], B: b.pix[base+2], A: b.pix[base+3]}
}

// paintCell fills the square for cell (cx, cy). Dead cells keep a one pixel
// grid line along their top and left edges.
func (b *Buffer) paintCell(cx, cy int, status uint8) {
	stride := b.size.W * b.cell
	x0, y0 := cx*b.cell, cy*b.cell
	for py := 0; py < b.cell; py++ {
		row := 4 * ((y0+py)*stride + x0)
		for px := 0; px < b.cell; px++ {
			col := b.palette.Dead
			switch {
			case status != 0:
				col = b.palette.Alive
			case px == 0 || py == 0:
				col = b.palette.Line
			}
			base := row + 4*px
			b.pix[base+0] = col.R
			b.pix[base+1] = col.G
			b.pix[base+2] = col.B
			b.pix[base+3] = col.A
		}
	}
}
