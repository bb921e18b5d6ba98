package main

import (
	"flag"
	"log"

	ebitenrender "chosenoffset.com/radsim/internal/render/ebiten"
	"chosenoffset.com/radsim/internal/simulation"
	"chosenoffset.com/radsim/internal/viewer"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config laid over the defaults")
	width := flag.Int("width", 0, "window width (overrides config)")
	height := flag.Int("height", 0, "window height (overrides config)")
	flag.Parse()

	cfg, err := simulation.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	log.Printf("Generating %d^3 dose field...", cfg.Dose.GridSize)
	v, err := viewer.New(renderer, inputMgr, cfg)
	if err != nil {
		log.Fatalf("Failed to start viewer: %v", err)
	}

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title)
	engine.SetWindowResizable(cfg.Window.Resizable)

	log.Println("Starting viewer...")
	if err := engine.RunGame(v); err != nil {
		log.Fatalf("Rendering context unavailable: %v", err)
	}
}
