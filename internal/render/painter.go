//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Painter uploads a Buffer into an ebiten image whenever it changed.
type Painter struct {
	*Buffer
	img *ebiten.Image
}

// NewPainter allocates a painter; the image is created on the first Redraw.
func NewPainter(p Palette) *Painter {
	return &Painter{Buffer: NewBuffer(p)}
}

// Draw uploads pending pixel changes and draws the board at (0, 0).
func (p *Painter) Draw(dst *ebiten.Image) {
	w, h := p.Bounds()
	if w == 0 || h == 0 {
		return
	}
	if p.img == nil || p.img.Bounds().Dx() != w || p.img.Bounds().Dy() != h {
		if p.img != nil {
			p.img.Dispose()
		}
		p.img = ebiten.NewImage(w, h)
		p.dirty = true
	}
	if p.TakeDirty() {
		p.img.WritePixels(p.Pixels())
	}
	dst.DrawImage(p.img, nil)
}

// Size returns the dimensions of the underlying image.
func (p *Painter) Size() (int, int) { return p.Bounds() }
