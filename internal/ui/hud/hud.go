// Package hud provides a heads-up readout of the current dose field: dose at
// the tumor, peak dose, grid size and how long the last regeneration took.
package hud

import (
	"fmt"
	"image/color"
	"time"

	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/render"
)

// HUDConfig defines what to display in the HUD
type HUDConfig struct {
	ShowDoseBar bool    // Show the tumor dose bar
	ShowTiming  bool    // Show the regeneration time
	ShowFPS     bool    // Show the frame rate in the bottom-left corner
	Position    string  // "top-left", "top-right", "bottom-left", "bottom-right"
	Opacity     float64 // Background opacity (0-1)
}

// DefaultConfig returns the default HUD configuration
func DefaultConfig() *HUDConfig {
	return &HUDConfig{
		ShowDoseBar: true,
		ShowTiming:  true,
		ShowFPS:     true,
		Position:    "top-left",
		Opacity:     0.7,
	}
}

// Stats is the data shown by the HUD
type Stats struct {
	Tumor     vec3.T
	TumorDose float32 // normalized 0-1
	PeakDose  float32 // normalized 0-1
	GridSize  int
	Regen     time.Duration
	Threshold float32
}

// HUD manages the heads-up display
type HUD struct {
	config       *HUDConfig
	renderer     render.Renderer
	screenWidth  int
	screenHeight int

	panelWidth int
}

const (
	padding       = 10
	lineHeight    = 16
	barHeight     = 12
	minPanelWidth = 220
)

// New creates a new HUD with the given configuration
func New(r render.Renderer, config *HUDConfig, screenWidth, screenHeight int) *HUD {
	if config == nil {
		config = DefaultConfig()
	}
	return &HUD{
		config:       config,
		renderer:     r,
		screenWidth:  screenWidth,
		screenHeight: screenHeight,
		panelWidth:   minPanelWidth,
	}
}

// SetScreenSize updates the screen dimensions
func (h *HUD) SetScreenSize(width, height int) {
	h.screenWidth = width
	h.screenHeight = height
}

// Lines returns the text lines of the readout
func (h *HUD) Lines(s Stats) []string {
	lines := []string{
		fmt.Sprintf("Tumor: %.2f, %.2f, %.2f", s.Tumor[0], s.Tumor[1], s.Tumor[2]),
		fmt.Sprintf("Dose at tumor: %.3f", s.TumorDose),
		fmt.Sprintf("Peak dose: %.3f", s.PeakDose),
		fmt.Sprintf("Grid: %d^3  threshold %.2f", s.GridSize, s.Threshold),
	}
	if h.config.ShowTiming {
		lines = append(lines, fmt.Sprintf("Regenerated in %s", s.Regen.Round(time.Microsecond)))
	}
	return lines
}

// fitWidth widens the panel to the longest line, never below minPanelWidth
func (h *HUD) fitWidth(lines []string) {
	width := minPanelWidth
	for _, line := range lines {
		if w, _ := h.renderer.MeasureText(line, 1); w+16 > width {
			width = w + 16
		}
	}
	h.panelWidth = width
}

// panelHeight calculates the height needed for all HUD elements
func (h *HUD) panelHeight(lines int) int {
	height := 2 * 8
	if h.config.ShowDoseBar {
		height += barHeight + 8
	}
	return height + lines*lineHeight
}

// calculatePosition returns the top-left corner of the HUD panel
func (h *HUD) calculatePosition(height int) (int, int) {
	switch h.config.Position {
	case "top-right":
		return h.screenWidth - h.panelWidth - padding, padding
	case "bottom-left":
		return padding, h.screenHeight - height - padding
	case "bottom-right":
		return h.screenWidth - h.panelWidth - padding, h.screenHeight - height - padding
	default: // "top-left"
		return padding, padding
	}
}

// Draw renders the HUD to the screen
func (h *HUD) Draw(screen render.Image, s Stats) {
	lines := h.Lines(s)
	h.fitWidth(lines)
	height := h.panelHeight(len(lines))
	x, y := h.calculatePosition(height)

	alpha := uint8(h.config.Opacity * 255)
	h.renderer.FillRect(screen, float32(x), float32(y), float32(h.panelWidth), float32(height), color.RGBA{20, 20, 30, alpha})
	h.renderer.StrokeRect(screen, float32(x), float32(y), float32(h.panelWidth), float32(height), 1, color.RGBA{60, 60, 80, alpha})

	currentY := y + 8
	if h.config.ShowDoseBar {
		currentY = h.drawDoseBar(screen, x+8, currentY, s.TumorDose, s.Threshold)
		currentY += 8
	}
	for _, line := range lines {
		h.renderer.DrawText(screen, line, x+8, currentY, color.RGBA{200, 200, 200, 255}, 1)
		currentY += lineHeight
	}

	if h.config.ShowFPS {
		h.renderer.DebugText(screen, fmt.Sprintf("FPS: %0.1f", h.renderer.ActualFPS()), padding, h.screenHeight-padding-lineHeight)
	}
}

// DoseColor returns the bar color for a dose relative to the display threshold
func DoseColor(dose, threshold float32) color.RGBA {
	switch {
	case dose >= 1:
		return color.RGBA{50, 180, 50, 255} // Saturated - green
	case dose >= threshold:
		return color.RGBA{200, 180, 50, 255} // Visible - yellow
	default:
		return color.RGBA{200, 50, 50, 255} // Below threshold - red
	}
}

// drawDoseBar draws the tumor dose as a filled bar
func (h *HUD) drawDoseBar(screen render.Image, x, y int, dose, threshold float32) int {
	barWidth := float32(h.panelWidth - 16)
	h.renderer.FillRect(screen, float32(x), float32(y), barWidth, barHeight, color.RGBA{60, 20, 20, 255})

	if dose > 0 {
		fill := max(barWidth*min(dose, 1)-2, 1)
		h.renderer.FillRect(screen, float32(x+1), float32(y+1), fill, barHeight-2, DoseColor(dose, threshold))
	}

	// Threshold marker
	tx := float32(x) + barWidth*threshold
	h.renderer.StrokeLine(screen, tx, float32(y), tx, float32(y+barHeight), 1, color.White)

	return y + barHeight + 4
}
