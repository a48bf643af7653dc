package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	margin     = 12
	lineHeight = fontSize + 4
	// Overlay text is recomputed every refreshFrames frames.
	refreshFrames = 30
)

// Debug holds the runtime overlays drawn at the top-right: FPS, heap and scene stats.
// All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool
	// Stats, when set, supplies the scene line (item count, mode, revision).
	Stats func() string

	font   rl.Font
	frames uint32
	cache  [3]string
	mem    runtime.MemStats
}

func New() *Debug { return &Debug{} }

func (d *Debug) SetShowFPS(show bool) { d.ShowFPS = show }

func (d *Debug) SetShowMemAlloc(show bool) { d.ShowMemAlloc = show }

// SetFont sets the overlay font. A zero texture keeps the raylib default.
func (d *Debug) SetFont(font rl.Font) { d.font = font }

func (d *Debug) fps() string { return fmt.Sprintf("FPS: %d", rl.GetFPS()) }

func (d *Debug) heap() string {
	runtime.ReadMemStats(&d.mem)
	return fmt.Sprintf("Mem: %.2f MiB", float64(d.mem.Alloc)/(1<<20))
}

func (d *Debug) stats() string {
	if d.Stats == nil {
		return ""
	}
	return d.Stats()
}

// Draw renders the enabled overlays, stacked from the top-right corner. Call last in the frame.
func (d *Debug) Draw() {
	d.frames++
	refresh := d.frames%refreshFrames == 0
	overlays := [...]struct {
		on   bool
		text func() string
	}{
		{d.ShowFPS, d.fps},
		{d.ShowMemAlloc, d.heap},
		{d.ShowStats, d.stats},
	}

	y := int32(margin)
	for i, o := range overlays {
		if !o.on {
			d.cache[i] = ""
			continue
		}
		if refresh || d.cache[i] == "" {
			d.cache[i] = o.text()
		}
		if d.cache[i] == "" {
			continue
		}
		d.drawRight(d.cache[i], y)
		y += lineHeight
	}
}

func (d *Debug) drawRight(text string, y int32) {
	right := float32(rl.GetScreenWidth() - margin)
	if d.font.Texture.ID == 0 {
		rl.DrawText(text, int32(right)-rl.MeasureText(text, fontSize), y, fontSize, rl.Green)
		return
	}
	size := rl.MeasureTextEx(d.font, text, fontSize, 1)
	rl.DrawTextEx(d.font, text, rl.NewVector2(right-size.X, float32(y)), fontSize, 1, rl.Green)
}
