// Package rendertest provides in-memory implementations of the render
// interfaces for tests that must run without a graphics context.
package rendertest

import (
	"errors"
	"image"
	"image/color"

	"chosenoffset.com/radsim/internal/render"
)

// Renderer records what is drawn through it.
type Renderer struct {
	Texts       []string
	Lines       int
	Rects       int
	Images      []*Image
	ShaderError error
	FPS         float64
}

// NewRenderer creates a recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// NewImage creates a recording image.
func (r *Renderer) NewImage(width, height int) render.Image {
	img := &Image{W: width, H: height}
	r.Images = append(r.Images, img)
	return img
}

// FillRect counts the rectangle.
func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	r.Rects++
}

// StrokeRect counts the rectangle.
func (r *Renderer) StrokeRect(dst render.Image, x, y, width, height, strokeWidth float32, clr color.Color) {
	r.Rects++
}

// StrokeLine counts the line.
func (r *Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1, strokeWidth float32, clr color.Color) {
	r.Lines++
}

// FillCircle counts the circle as a rectangle.
func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	r.Rects++
}

// DrawText records the text.
func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	r.Texts = append(r.Texts, text)
}

// DrawTextCentered records the text.
func (r *Renderer) DrawTextCentered(dst render.Image, text string, cx, cy int, clr color.Color, scale float64) {
	r.Texts = append(r.Texts, text)
}

// MeasureText assumes a 7x13 cell per character.
func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	return int(float64(len(text)*7) * scale), int(13 * scale)
}

// DebugText records the text.
func (r *Renderer) DebugText(dst render.Image, text string, x, y int) {
	r.Texts = append(r.Texts, text)
}

// ActualFPS returns FPS.
func (r *Renderer) ActualFPS() float64 { return r.FPS }

// CompileShader returns a dummy shader or ShaderError.
func (r *Renderer) CompileShader(src []byte) (render.Shader, error) {
	if r.ShaderError != nil {
		return nil, r.ShaderError
	}
	if len(src) == 0 {
		return nil, errors.New("empty shader source")
	}
	return &Shader{Src: src}, nil
}

// Shader is a placeholder compiled shader.
type Shader struct {
	Src      []byte
	Disposed bool
}

// Dispose marks the shader disposed.
func (s *Shader) Dispose() { s.Disposed = true }

// TriangleCall records one DrawTriangles or DrawTrianglesShader call.
type TriangleCall struct {
	Vertices []render.Vertex
	Indices  []uint16
	Shader   render.Shader
	Options  *render.DrawTrianglesShaderOptions
}

// Image records draws onto it.
type Image struct {
	W, H     int
	Pixels   []byte
	Calls    []TriangleCall
	Fills    []color.Color
	Disposed bool
}

// Bounds returns the image rectangle.
func (i *Image) Bounds() image.Rectangle { return image.Rect(0, 0, i.W, i.H) }

// Size returns the image size.
func (i *Image) Size() (int, int) { return i.W, i.H }

// Fill records the fill color.
func (i *Image) Fill(clr color.Color) { i.Fills = append(i.Fills, clr) }

// Clear records a transparent fill.
func (i *Image) Clear() { i.Fills = append(i.Fills, color.Transparent) }

// WritePixels keeps a copy of pix.
func (i *Image) WritePixels(pix []byte) {
	i.Pixels = append(i.Pixels[:0], pix...)
}

// DrawTriangles records the call.
func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	i.Calls = append(i.Calls, TriangleCall{
		Vertices: append([]render.Vertex(nil), vertices...),
		Indices:  append([]uint16(nil), indices...),
	})
}

// DrawTrianglesShader records the call.
func (i *Image) DrawTrianglesShader(vertices []render.Vertex, indices []uint16, shader render.Shader, opts *render.DrawTrianglesShaderOptions) {
	i.Calls = append(i.Calls, TriangleCall{
		Vertices: append([]render.Vertex(nil), vertices...),
		Indices:  append([]uint16(nil), indices...),
		Shader:   shader,
		Options:  opts,
	})
}

// Dispose marks the image disposed.
func (i *Image) Dispose() { i.Disposed = true }

// Input is a scriptable InputManager. Tests set the fields before each Update.
type Input struct {
	X, Y        int
	Buttons     map[render.MouseButton]bool
	JustPressed map[render.MouseButton]bool
	JustKeys    map[render.Key]bool
	WheelY      float64
	Touch       *image.Point
}

// NewInput creates an idle input.
func NewInput() *Input {
	return &Input{
		Buttons:     map[render.MouseButton]bool{},
		JustPressed: map[render.MouseButton]bool{},
		JustKeys:    map[render.Key]bool{},
	}
}

// Press moves the cursor to (x, y) and presses button this tick.
func (in *Input) Press(button render.MouseButton, x, y int) {
	in.X, in.Y = x, y
	in.Buttons[button] = true
	in.JustPressed[button] = true
}

// Drag moves the cursor with button held.
func (in *Input) Drag(button render.MouseButton, x, y int) {
	in.X, in.Y = x, y
	in.Buttons[button] = true
	in.JustPressed[button] = false
}

// Release lets go of button.
func (in *Input) Release(button render.MouseButton) {
	in.Buttons[button] = false
	in.JustPressed[button] = false
}

func (in *Input) IsKeyJustPressed(key render.Key) bool { return in.JustKeys[key] }
func (in *Input) GetCursorPosition() (int, int)        { return in.X, in.Y }
func (in *Input) IsMouseButtonPressed(b render.MouseButton) bool {
	return in.Buttons[b]
}
func (in *Input) IsMouseButtonJustPressed(b render.MouseButton) bool {
	return in.JustPressed[b]
}
func (in *Input) Wheel() (float64, float64) { return 0, in.WheelY }
func (in *Input) PrimaryTouch() (int, int, bool) {
	if in.Touch == nil {
		return 0, 0, false
	}
	return in.Touch.X, in.Touch.Y, true
}
