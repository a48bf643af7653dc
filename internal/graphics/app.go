package graphics

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/debug"
	"room-designer/internal/designer"
	"room-designer/internal/primitives"
	"room-designer/internal/terminal"
	"room-designer/internal/ui"
)

// Designer is the window application: the 3D view, the HUD, the console and the debug overlays
// around one designer controller.
type Designer struct {
	ctl      *designer.Controller
	term     *terminal.Terminal
	dbg      *debug.Debug
	engine   *ui.Engine
	prims    *primitives.Registry
	hud      *ui.HUD
	renderer *Renderer
	poller   *Poller

	// FontPath and CSSPath are loaded in Load when set.
	FontPath string
	CSSPath  string
}

func NewDesigner(ctl *designer.Controller, term *terminal.Terminal, dbg *debug.Debug) *Designer {
	d := &Designer{
		ctl:    ctl,
		term:   term,
		dbg:    dbg,
		engine: ui.New(),
		prims:  primitives.NewRegistry(),
	}
	d.renderer = NewRenderer(ctl, d.prims)
	d.poller = NewPoller(ctl, d.renderer, term)
	d.hud = ui.NewHUD(d.engine)
	dbg.Stats = func() string {
		return fmt.Sprintf("items %d mode %s rev %d", ctl.Scene().Len(), ctl.Modes().Mode(), ctl.Scene().Revision())
	}
	return d
}

// Renderer exposes the 3D renderer, e.g. to toggle the grid.
func (d *Designer) Renderer() *Renderer { return d.renderer }

func (d *Designer) Load() {
	log := d.ctl.Log()
	if d.CSSPath != "" {
		if err := d.engine.LoadCSS(d.CSSPath); err != nil {
			log.Warnf("stylesheet %s: %v", d.CSSPath, err)
		}
	}
	if d.FontPath != "" {
		if err := d.engine.LoadFont(d.FontPath); err != nil {
			log.Warnf("font %s: %v", d.FontPath, err)
		} else {
			d.term.SetFont(d.engine.Font())
			d.dbg.SetFont(d.engine.Font())
		}
	}
	d.ctl.SetFrameSource(ScreenFrames)
}

func (d *Designer) Unload() {
	d.hud.Unload()
	d.prims.Unload()
}

func (d *Designer) Clear() rl.Color { return d.renderer.Sky() }

func (d *Designer) Update(dt float32) {
	d.term.Update()
	d.poller.Poll()
	d.ctl.Tick(dt)
}

// Draw renders the 3D pass, takes a requested screenshot, then the overlays, which the capture
// does not include.
func (d *Designer) Draw() {
	d.renderer.Draw3D()
	d.ctl.FlushScreenshot()
	d.hud.Draw(BuildView(d.ctl))
	d.term.Draw()
	d.dbg.Draw()
}
