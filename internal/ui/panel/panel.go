// Package panel provides a small immediate-mode control panel of collapsible
// folders holding labelled sliders, anchored to the top-right corner.
package panel

import (
	"fmt"
	"image/color"

	"chosenoffset.com/radsim/internal/render"
)

// Layout metrics in pixels
const (
	DefaultWidth = 260
	margin       = 10
	titleHeight  = 22
	rowHeight    = 24
	labelWidth   = 80
	valueWidth   = 48
	trackHeight  = 14
)

// Panel colors
var (
	backgroundColor = color.RGBA{26, 26, 26, 230}
	titleColor      = color.RGBA{0, 0, 0, 240}
	trackColor      = color.RGBA{48, 48, 48, 255}
	fillColor       = color.RGBA{47, 161, 214, 255}
	textColor       = color.RGBA{238, 238, 238, 255}
	dimTextColor    = color.RGBA{150, 150, 150, 255}
)

// Slider edits one float value through Get and Set.
type Slider struct {
	Label    string
	Min, Max float32
	Get      func() float32
	Set      func(float32)
}

// Folder groups sliders under a clickable title.
type Folder struct {
	Title   string
	Sliders []*Slider
	Closed  bool
}

// rowKind tells title rows from slider rows
type rowKind int

const (
	rowTitle rowKind = iota
	rowSlider
)

// row is one laid-out line of the panel
type row struct {
	kind   rowKind
	folder *Folder
	slider *Slider
	x, y   int
	w, h   int
}

func (r row) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// trackX returns the left edge and width of the slider track.
func (r row) track() (x, w int) {
	return r.x + labelWidth, r.w - labelWidth - valueWidth
}

// Panel is the slider panel.
type Panel struct {
	renderer    render.Renderer
	input       render.InputManager
	folders     []*Folder
	width       int
	screenWidth int

	active  *Slider
	pressed bool
}

// New creates an empty panel for a screen of the given width.
func New(r render.Renderer, input render.InputManager, screenWidth int) *Panel {
	return &Panel{
		renderer:    r,
		input:       input,
		width:       DefaultWidth,
		screenWidth: screenWidth,
	}
}

// AddFolder appends a folder of sliders.
func (p *Panel) AddFolder(title string, sliders ...*Slider) *Folder {
	f := &Folder{Title: title, Sliders: sliders}
	p.folders = append(p.folders, f)
	return f
}

// SetScreenWidth re-anchors the panel after a resize.
func (p *Panel) SetScreenWidth(width int) {
	p.screenWidth = width
}

// layout returns the rows top to bottom.
func (p *Panel) layout() []row {
	x := p.screenWidth - p.width - margin
	y := margin
	var rows []row
	for _, f := range p.folders {
		rows = append(rows, row{kind: rowTitle, folder: f, x: x, y: y, w: p.width, h: titleHeight})
		y += titleHeight
		if f.Closed {
			continue
		}
		for _, s := range f.Sliders {
			rows = append(rows, row{kind: rowSlider, folder: f, slider: s, x: x, y: y, w: p.width, h: rowHeight})
			y += rowHeight
		}
	}
	return rows
}

// hit returns the row under (x, y).
func (p *Panel) hit(x, y int) (row, bool) {
	for _, r := range p.layout() {
		if r.contains(x, y) {
			return r, true
		}
	}
	return row{}, false
}

// Contains reports whether (x, y) is over the panel.
func (p *Panel) Contains(x, y int) bool {
	_, ok := p.hit(x, y)
	return ok
}

// Dragging reports whether a slider is being dragged.
func (p *Panel) Dragging() bool {
	return p.active != nil
}

// ValueAt maps cursor x onto a slider track, clamped to [min, max].
func ValueAt(x, trackX, trackWidth int, min, max float32) float32 {
	if trackWidth <= 0 {
		return min
	}
	t := float32(x-trackX) / float32(trackWidth)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return min + t*(max-min)
}

// Update handles the mouse. It returns true when the panel owns the
// pointer this tick, in which case the scene should ignore it.
func (p *Panel) Update() bool {
	mx, my := p.input.GetCursorPosition()
	down := p.input.IsMouseButtonPressed(render.MouseButtonLeft)
	clicked := down && !p.pressed
	p.pressed = down

	if !down {
		p.active = nil
		return false
	}

	if clicked {
		r, ok := p.hit(mx, my)
		if !ok {
			return false
		}
		if r.kind == rowTitle {
			r.folder.Closed = !r.folder.Closed
			return true
		}
		p.active = r.slider
	}

	if p.active == nil {
		return false
	}
	for _, r := range p.layout() {
		if r.slider == p.active {
			tx, tw := r.track()
			p.active.Set(ValueAt(mx, tx, tw, p.active.Min, p.active.Max))
			break
		}
	}
	return true
}

// Draw renders the panel.
func (p *Panel) Draw(screen render.Image) {
	rows := p.layout()
	if len(rows) == 0 {
		return
	}
	last := rows[len(rows)-1]
	p.renderer.FillRect(screen, float32(rows[0].x), float32(rows[0].y), float32(p.width), float32(last.y+last.h-rows[0].y), backgroundColor)

	for _, r := range rows {
		switch r.kind {
		case rowTitle:
			p.drawTitle(screen, r)
		case rowSlider:
			p.drawSlider(screen, r)
		}
	}
}

func (p *Panel) drawTitle(screen render.Image, r row) {
	p.renderer.FillRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), titleColor)
	marker := "v"
	if r.folder.Closed {
		marker = ">"
	}
	p.renderer.DrawText(screen, fmt.Sprintf("%s %s", marker, r.folder.Title), r.x+6, r.y+4, textColor, 1)
}

func (p *Panel) drawSlider(screen render.Image, r row) {
	s := r.slider
	p.renderer.DrawText(screen, s.Label, r.x+12, r.y+5, dimTextColor, 1)

	tx, tw := r.track()
	ty := r.y + (rowHeight-trackHeight)/2
	p.renderer.FillRect(screen, float32(tx), float32(ty), float32(tw), trackHeight, trackColor)

	v := s.Get()
	t := float32(0)
	if s.Max > s.Min {
		t = (v - s.Min) / (s.Max - s.Min)
	}
	p.renderer.FillRect(screen, float32(tx), float32(ty), float32(tw)*t, trackHeight, fillColor)

	p.renderer.DrawText(screen, fmt.Sprintf("%.2f", v), tx+tw+6, r.y+5, fillColor, 1)
}
