package render

import (
	"image"
	"image/color"
)

// Shader represents a compiled shader program.
type Shader interface {
	// Dispose releases shader resources.
	Dispose()
}

// DrawTrianglesShaderOptions contains options for drawing triangles with a shader.
type DrawTrianglesShaderOptions struct {
	// Images are the source images for the shader (up to 4).
	Images [4]Image
	// Uniforms are the shader uniform values.
	Uniforms map[string]interface{}
}

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. The viewer only talks to this interface, so tests can run
// against a fake without a graphics context.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Vector operations (for drawing shapes)
	FillRect(dst Image, x, y, width, height float32, clr color.Color)
	StrokeRect(dst Image, x, y, width, height, strokeWidth float32, clr color.Color)
	StrokeLine(dst Image, x0, y0, x1, y1, strokeWidth float32, clr color.Color)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	DrawTextCentered(dst Image, text string, cx, cy int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
	DebugText(dst Image, text string, x, y int)

	// ActualFPS returns the measured frames per second.
	ActualFPS() float64

	// Shader operations
	CompileShader(src []byte) (Shader, error)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// WritePixels replaces the image contents with premultiplied RGBA bytes.
	WritePixels(pix []byte)

	// Drawing operations
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)
	DrawTrianglesShader(vertices []Vertex, indices []uint16, shader Shader, opts *DrawTrianglesShaderOptions)

	// Resource management
	Dispose()
}

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// MaxBatchVertices is the largest vertex count addressable by uint16 indices.
const MaxBatchVertices = 1<<16 - 1

// InputManager handles input from the user (keyboard, mouse, touch).
type InputManager interface {
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonPressed(button MouseButton) bool
	IsMouseButtonJustPressed(button MouseButton) bool

	// Wheel returns the wheel movement since the last tick.
	Wheel() (dx, dy float64)

	// PrimaryTouch returns the position of the oldest active touch.
	PrimaryTouch() (x, y int, ok bool)
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the viewer reacts to
const (
	KeyR Key = iota // Reset camera
	KeyV            // Toggle volume overlay
	KeyH            // Toggle HUD
)

// MouseButton represents a mouse button.
type MouseButton int

// Mouse button constants
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Game represents the interface that the engine will call.
type Game interface {
	// Update updates the state. It is called every tick (typically 60 times per second).
	Update() error

	// Draw draws the screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the engine that manages the main loop and window.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// RunGame runs the main loop with the provided game.
	// This is a blocking call that runs until the window closes.
	RunGame(game Game) error
}
