package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/designer"
	"room-designer/internal/editor"
	"room-designer/internal/input"
	"room-designer/internal/mode"
	"room-designer/internal/terminal"
)

const (
	orbitSpeed float32 = 0.005 // radians per pixel
	panSpeed   float32 = 0.01  // metres per pixel
)

var keyCodes = []struct {
	key  int32
	code string
}{
	{rl.KeyW, "w"},
	{rl.KeyA, "a"},
	{rl.KeyS, "s"},
	{rl.KeyD, "d"},
	{rl.KeyUp, "arrow_up"},
	{rl.KeyDown, "arrow_down"},
	{rl.KeyLeft, "arrow_left"},
	{rl.KeyRight, "arrow_right"},
	{rl.KeyLeftShift, "shift"},
	{rl.KeyRightShift, "shift"},
	{rl.KeyP, "p"},
	{rl.KeyM, "m"},
	{rl.KeyEscape, "escape"},
	{rl.KeyDelete, "delete"},
	{rl.KeyBackspace, "delete"},
	{rl.KeyOne, "1"},
	{rl.KeyTwo, "2"},
	{rl.KeyThree, "3"},
}

// Poller turns raylib device state into designer input once per frame.
type Poller struct {
	ctl      *designer.Controller
	renderer *Renderer
	term     *terminal.Terminal
	pressing bool
	termOpen bool
	focus    input.Focus
}

func NewPoller(ctl *designer.Controller, renderer *Renderer, term *terminal.Terminal) *Poller {
	return &Poller{ctl: ctl, renderer: renderer, term: term}
}

// Poll reads the keyboard and mouse. Nothing reaches the designer while the console is open or
// the window is unfocused.
func (p *Poller) Poll() {
	focused := rl.IsWindowFocused()
	if p.focus.Sync(p.ctl.Bus(), focused) {
		p.release()
	}
	if !focused {
		return
	}

	if p.term != nil && p.term.IsOpen() {
		if !p.termOpen {
			p.termOpen = true
			p.ctl.Bus().Dispatch(input.Event{Kind: input.Blur})
			p.release()
		}
		return
	}
	if p.termOpen {
		// The key that closed the console is still pressed this frame.
		p.termOpen = false
		return
	}

	p.keys()
	if p.ctl.Modes().Mode() == mode.Tour {
		p.tour()
		return
	}
	p.syncCursor(false)
	p.edit()
}

// release ends a press in progress.
func (p *Poller) release() {
	if p.pressing {
		p.ctl.PointerUp()
		p.pressing = false
	}
}

func (p *Poller) keys() {
	bus := p.ctl.Bus()
	for _, k := range keyCodes {
		switch {
		case rl.IsKeyPressed(k.key):
			bus.Dispatch(input.Event{Kind: input.KeyDown, Code: k.code})
		case rl.IsKeyReleased(k.key):
			bus.Dispatch(input.Event{Kind: input.KeyUp, Code: k.code})
		}
	}
}

func (p *Poller) tour() {
	bus := p.ctl.Bus()
	t := p.ctl.Tour()
	if t.Locked() {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			bus.Dispatch(input.Event{Kind: input.PointerMove, DX: d.X, DY: d.Y})
		}
	}
	if w := rl.GetMouseWheelMove(); w != 0 {
		bus.Dispatch(input.Event{Kind: input.Wheel, Delta: w})
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		bus.Dispatch(input.Event{Kind: input.PointerDown, X: pos.X, Y: pos.Y})
	}
	p.syncCursor(t.Locked())
}

func (p *Poller) syncCursor(locked bool) {
	if locked == rl.IsCursorHidden() {
		return
	}
	if locked {
		rl.DisableCursor()
	} else {
		rl.EnableCursor()
	}
}

func (p *Poller) edit() {
	ctl := p.ctl
	ed := ctl.Editor()

	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		ctl.PointerDown(p.renderer.PointerRay())
		p.pressing = true
	case p.pressing && rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		ctl.PointerUp()
		p.pressing = false
	case p.pressing:
		ctl.PointerMove(p.renderer.PointerRay())
	}

	d := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		ctl.Orbit(-d.X*orbitSpeed, -d.Y*orbitSpeed)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		ctl.Pan(-d.X*panSpeed, -d.Y*panSpeed)
	}
	if w := rl.GetMouseWheelMove(); w != 0 {
		ctl.Zoom(w)
	}

	switch {
	case rl.IsKeyPressed(rl.KeyT):
		ed.SetGizmo(mode.GizmoTranslate)
	case rl.IsKeyPressed(rl.KeyR):
		ed.SetGizmo(mode.GizmoRotate)
	case rl.IsKeyPressed(rl.KeyG):
		ed.SetGizmo(mode.GizmoScale)
	}

	if ed.Dragging() {
		return
	}
	step := editor.NudgeStep
	if rl.IsKeyDown(rl.KeyLeftShift) {
		step *= 10
	}
	switch {
	case rl.IsKeyPressed(rl.KeyLeft):
		ed.Nudge(editor.AxisX, -step)
	case rl.IsKeyPressed(rl.KeyRight):
		ed.Nudge(editor.AxisX, step)
	case rl.IsKeyPressed(rl.KeyUp):
		ed.Nudge(editor.AxisZ, -step)
	case rl.IsKeyPressed(rl.KeyDown):
		ed.Nudge(editor.AxisZ, step)
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		ed.RotateY(-editor.RotateStep)
	case rl.IsKeyPressed(rl.KeyRightBracket):
		ed.RotateY(editor.RotateStep)
	}
}
