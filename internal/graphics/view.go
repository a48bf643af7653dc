package graphics

import (
	"fmt"

	"github.com/chewxy/math32"

	"room-designer/internal/designer"
	"room-designer/internal/mode"
	"room-designer/internal/notify"
	"room-designer/internal/ui"
)

var modeHints = map[mode.Mode]string{
	mode.Edit3D:      "1 edit  2 blueprint  3 tour   drag to move, T/R/G gizmo, [ ] rotate",
	mode.Blueprint2D: "1 edit  2 blueprint  3 tour   drag to move, arrows nudge",
	mode.Tour:        "",
}

// BuildView collects what the HUD shows for the current frame.
func BuildView(ctl *designer.Controller) ui.View {
	m := ctl.Modes().Mode()
	v := ui.View{
		Mode:      fmt.Sprintf("%s  [%s]", m, ctl.Editor().Gizmo()),
		Hint:      modeHints[m],
		Crosshair: m == mode.Tour,
	}
	if m == mode.Tour {
		v.Mode = m.String()
	}

	if m != mode.Tour {
		v.Selection = selection(ctl)
	}
	if h := ctl.Hover(); h != nil {
		v.Hover = &ui.Hover{Type: h.Type, Distance: h.Distance}
	}
	if ctl.OverlayVisible() {
		v.Overlay = []string{
			notify.T("TOUR_CLICK_TO_LOOK"),
			notify.T("TOUR_MOVE"),
			notify.T("TOUR_ZOOM"),
			notify.T("TOUR_EXIT"),
		}
	}
	for _, n := range ctl.Notifications().Visible() {
		v.Notes = append(v.Notes, ui.Note{Level: noteLevel(n.Level), Text: n.Text})
	}
	if ctl.MinimapVisible() {
		v.Minimap, v.MinimapSeq = ctl.Minimap()
	}
	return v
}

func selection(ctl *designer.Controller) *ui.Selection {
	it, ok := ctl.Editor().Preview()
	if !ok {
		if it, ok = ctl.Scene().Selected(); !ok {
			return nil
		}
	}
	sel := &ui.Selection{
		ID:          it.ID,
		Type:        it.Type,
		Position:    it.Position,
		RotationDeg: math32.Round(it.Yaw() * 180 / math32.Pi),
		Scale:       it.Scale[0],
		Color:       it.Color,
		Dragging:    ctl.Editor().Dragging(),
	}
	if m, ok := ctl.Editor().Measure(); ok {
		sel.Walls = [4]float32{m.Left, m.Right, m.Back, m.Front}
	}
	return sel
}

func noteLevel(l notify.Level) ui.NoteLevel {
	switch l {
	case notify.Success:
		return ui.NoteSuccess
	case notify.Error:
		return ui.NoteError
	default:
		return ui.NoteInfo
	}
}
