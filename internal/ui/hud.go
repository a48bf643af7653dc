package ui

import (
	"image"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	noteSpacing    = 40
	overlaySpacing = 30
	minimapMargin  = 16
	crosshairSize  = 8
)

// NoteLevel mirrors the notification levels of the designer.
type NoteLevel int

const (
	NoteInfo NoteLevel = iota
	NoteSuccess
	NoteError
)

// Note is one toast line.
type Note struct {
	Level NoteLevel
	Text  string
}

// Hover is the gaze card shown under the crosshair.
type Hover struct {
	Type     string
	Distance float32
}

// View is everything the HUD draws for one frame.
type View struct {
	Mode      string
	Hint      string
	Selection *Selection
	Hover     *Hover
	Overlay   []string // instruction lines, nil to hide
	Notes     []Note
	Crosshair bool

	Minimap    *image.NRGBA
	MinimapSeq uint64
}

// HUD lays out a View as nodes and draws the parts that are not boxes of text.
type HUD struct {
	engine    *Engine
	inspector *Inspector
	modebar   *Node
	hint      *Node
	hover     *Node
	overlay   *Node
	lines     []*Node
	notes     []*Node
	nodes     []*Node

	minimap    rl.Texture2D
	minimapSeq uint64
}

func NewHUD(engine *Engine) *HUD {
	return &HUD{
		engine:    engine,
		inspector: NewInspector(),
		modebar:   NewNode("label", "modebar", "mode", ""),
		hint:      NewNode("label", "modehint", "", ""),
		hover:     NewNode("label", "hover-card", "", ""),
		overlay:   NewNode("panel", "overlay", "", ""),
	}
}

func noteClass(l NoteLevel) string {
	switch l {
	case NoteSuccess:
		return "note-success"
	case NoteError:
		return "note-error"
	default:
		return "note-info"
	}
}

// Draw draws v. Call after the 3D pass, outside BeginMode3D.
func (h *HUD) Draw(v View) {
	h.nodes = h.nodes[:0]

	h.modebar.Text = v.Mode
	h.hint.Text = v.Hint
	h.nodes = append(h.nodes, h.modebar)
	if v.Hint != "" {
		h.nodes = append(h.nodes, h.hint)
	}
	h.nodes = h.inspector.AppendNodes(h.nodes, v.Selection)

	if v.Hover != nil {
		h.hover.Text = v.Hover.Type + "  " + formatMetres(v.Hover.Distance)
		h.nodes = append(h.nodes, h.hover)
	}

	if len(v.Overlay) > 0 {
		h.nodes = append(h.nodes, h.overlay)
		for len(h.lines) < len(v.Overlay) {
			h.lines = append(h.lines, NewNode("label", "overlay-line", "", ""))
		}
		top := -float32(len(v.Overlay)-1) * overlaySpacing / 2
		for i, text := range v.Overlay {
			n := h.lines[i]
			n.Text = text
			n.Bounds.Y = top + float32(i*overlaySpacing)
			h.nodes = append(h.nodes, n)
		}
	}

	for len(h.notes) < len(v.Notes) {
		h.notes = append(h.notes, NewNode("label", "", "", ""))
	}
	for i, note := range v.Notes {
		n := h.notes[i]
		n.Class = noteClass(note.Level)
		n.Text = note.Text
		n.Bounds.Y = float32(i * noteSpacing)
		h.nodes = append(h.nodes, n)
	}

	h.engine.SetNodes(h.nodes)
	h.engine.Draw()

	if v.Crosshair {
		drawCrosshair()
	}
	h.drawMinimap(v)
}

func drawCrosshair() {
	cx := int32(rl.GetScreenWidth()) / 2
	cy := int32(rl.GetScreenHeight()) / 2
	rl.DrawLine(cx-crosshairSize, cy, cx+crosshairSize, cy, rl.White)
	rl.DrawLine(cx, cy-crosshairSize, cx, cy+crosshairSize, rl.White)
}

func (h *HUD) drawMinimap(v View) {
	if v.Minimap == nil {
		return
	}
	if v.MinimapSeq != h.minimapSeq || !rl.IsTextureValid(h.minimap) {
		if rl.IsTextureValid(h.minimap) {
			rl.UnloadTexture(h.minimap)
		}
		img := rl.NewImageFromImage(v.Minimap)
		h.minimap = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		h.minimapSeq = v.MinimapSeq
	}
	x := int32(rl.GetScreenWidth()) - h.minimap.Width - minimapMargin
	y := int32(rl.GetScreenHeight()) - h.minimap.Height - minimapMargin
	rl.DrawTexture(h.minimap, x, y, rl.White)
}

// Unload frees the GPU resources held by the HUD.
func (h *HUD) Unload() {
	if rl.IsTextureValid(h.minimap) {
		rl.UnloadTexture(h.minimap)
	}
}

func formatMetres(d float32) string {
	return strconv.FormatFloat(float64(d), 'f', 1, 32) + "m"
}
