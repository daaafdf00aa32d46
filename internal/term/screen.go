// Package term renders a Life board into a terminal, one character per cell.
package term

import (
	"torus-life/internal/core"

	"github.com/gdamore/tcell/v2"
)

// Glyphs used for live and dead cells.
const (
	AliveRune = '█'
	DeadRune  = '·'
)

// Screen draws grid cells onto a tcell screen starting at row Top, leaving the
// rows above for a status line. It implements core.Renderer; cell sizes are
// ignored because a terminal cell is the unit.
type Screen struct {
	s     tcell.Screen
	top   int
	size  core.Size
	alive tcell.Style
	dead  tcell.Style
}

// NewScreen wraps an initialised tcell screen.
func NewScreen(s tcell.Screen, top int) *Screen {
	return &Screen{
		s:     s,
		top:   top,
		alive: tcell.StyleDefault.Foreground(tcell.ColorWhite),
		dead:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
}

// Redraw clears the board area and draws every cell.
func (t *Screen) Redraw(size core.Size, _ int, cells []uint8) {
	if len(cells) != size.Cells() {
		return
	}
	t.size = size
	t.s.Clear()
	for i, c := range cells {
		t.put(i%size.W, i/size.W, c)
	}
	t.s.Show()
}

// RedrawChanges draws only the listed cells.
func (t *Screen) RedrawChanges(_ int, updates []core.CellUpdate) {
	if len(updates) == 0 {
		return
	}
	for _, u := range updates {
		if u.Col < 0 || u.Col >= t.size.W || u.Row < 0 || u.Row >= t.size.H {
			continue
		}
		t.put(u.Col, u.Row, u.Status)
	}
	t.s.Show()
}

// Status writes msg on the first row, padded to the screen width.
func (t *Screen) Status(msg string) {
	w, _ := t.s.Size()
	x := 0
	for _, r := range msg {
		if x >= w {
			break
		}
		t.s.SetContent(x, 0, r, nil, tcell.StyleDefault)
		x++
	}
	for ; x < w; x++ {
		t.s.SetContent(x, 0, ' ', nil, tcell.StyleDefault)
	}
	t.s.Show()
}

func (t *Screen) put(x, y int, status uint8) {
	if status != 0 {
		t.s.SetContent(x, y+t.top, AliveRune, nil, t.alive)
		return
	}
	t.s.SetContent(x, y+t.top, DeadRune, nil, t.dead)
}
