package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Config sizes the window.
type Config struct {
	Title      string
	Width      int32
	Height     int32
	TargetFPS  int32
	Fullscreen bool
}

// DefaultConfig is a resizable 1280x720 window at 60 FPS.
func DefaultConfig() Config {
	return Config{Title: "Room Designer", Width: 1280, Height: 720, TargetFPS: 60}
}

// App is driven by Run. Load and Unload bracket the loop while the GL context exists.
type App interface {
	Load()
	Unload()
	// Clear is the background colour of the next frame.
	Clear() rl.Color
	Update(dt float32)
	Draw()
}

// Run opens the window and runs app until the window is closed. Escape is left to the app.
func Run(cfg Config, app App) {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if cfg.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(cfg.Width, cfg.Height, cfg.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(cfg.TargetFPS)

	app.Load()
	defer app.Unload()

	for !rl.WindowShouldClose() {
		app.Update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(app.Clear())
		app.Draw()
		rl.EndDrawing()
	}
}
