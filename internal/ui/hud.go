//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"

	"torus-life/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Source supplies the values and controls shown on the HUD.
type Source interface {
	core.ParameterControlsProvider
	core.IntParameterSetter
	Parameters() core.ParameterSnapshot
}

// HUD renders the control panel to the right of the board.
type HUD struct {
	src    Source
	width  int
	panel  *ebiten.Image
	status string

	snapshot     core.ParameterSnapshot
	controls     []hudControlState
	panelOffsetX int
}

// NewHUD constructs a HUD for the provided source and panel width.
func NewHUD(src Source, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{src: src, width: width}
	controls := src.ParameterControls()
	h.controls = make([]hudControlState, len(controls))
	for i, ctrl := range controls {
		h.controls[i] = hudControlState{control: ctrl, value: "--"}
	}
	h.layoutControls()
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int { return h.width }

// SetStatus replaces the run-state line.
func (h *HUD) SetStatus(s string) { h.status = s }

// Update refreshes the cached snapshot and handles clicks. It reports whether
// a parameter changed.
func (h *HUD) Update(panelOffsetX int) bool {
	if h == nil {
		return false
	}
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.src.Parameters()
	h.refreshControlValues()
	return h.handleInput()
}

// Draw paints the HUD panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		if h.panel != nil {
			h.panel.Dispose()
		}
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawText()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		parsed, err := strconv.Atoi(param.Value)
		if err != nil {
			state.hasValue = false
			state.value = "--"
			continue
		}
		state.intValue = parsed
		state.value = param.Value
		state.hasValue = true
	}
}

func (h *HUD) handleInput() bool {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return false
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if image.Pt(px, my).In(state.minusRect) {
			return h.applyAdjustment(state, -1)
		}
		if image.Pt(px, my).In(state.plusRect) {
			return h.applyAdjustment(state, 1)
		}
	}
	return false
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) bool {
	step := state.control.Step
	if step <= 0 {
		step = 1
	}
	target := state.control.Clamp(state.intValue + direction*step)
	if target == state.intValue {
		return false
	}
	if !h.src.SetIntParameter(state.control.Key, target) {
		return false
	}
	state.intValue = target
	state.value = strconv.Itoa(target)
	return true
}

func (h *HUD) drawText() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Life Controls", face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	info := color.RGBA{R: 160, G: 160, B: 170, A: 255}
	for _, key := range []string{"gen", "pop"} {
		y += infoSpacing
		if p, ok := h.snapshot.Lookup(key); ok {
			text.Draw(h.panel, p.Label+": "+p.Value, face, panelPadding, y, info)
		}
	}
	y += infoSpacing
	text.Draw(h.panel, h.status, face, panelPadding, y, info)

	help := []string{"space run/stop", "n step", "r reset", "s new seed", "q quit"}
	height := h.panel.Bounds().Dy()
	for i := range help {
		line := help[len(help)-1-i]
		text.Draw(h.panel, line, face, panelPadding, height-panelPadding-i*infoSpacing, info)
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})

		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		valueWidth := text.BoundString(face, state.value).Dx()
		valueX := state.minusRect.Min.X - buttonGap - valueWidth
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		h.drawButton(state.minusRect, "-", state.hasValue && state.intValue > state.control.Min)
		h.drawButton(state.plusRect, "+", state.hasValue && state.intValue < state.control.Max)
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	x, y := float32(rect.Min.X), float32(rect.Min.Y)
	w, hgt := float32(rect.Dx()), float32(rect.Dy())
	vector.DrawFilledRect(h.panel, x, y, w, hgt, bg, false)
	vector.StrokeRect(h.panel, x, y, w, hgt, 1, fg, false)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	tx := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	ty := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, tx, ty, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	intValue int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 18
	controlsTop    = panelPadding + headerBaseline + 4*infoSpacing + 14
)

// MinHeight is the panel height needed to show every control and the key help.
func (h *HUD) MinHeight() int {
	return controlsTop + len(h.controls)*lineHeight + 6*infoSpacing + panelPadding
}
