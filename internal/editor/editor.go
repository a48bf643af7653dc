// Package editor turns pointer drags and panel buttons into furniture transforms. Drags preview
// a live transform every tick and write to the scene once, on release.
package editor

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"room-designer/internal/geom"
	"room-designer/internal/mode"
	"room-designer/internal/scene"
)

const (
	// DefaultMargin keeps items this far from the walls.
	DefaultMargin float32 = 0.5
	// NudgeStep is the distance moved by one nudge button press.
	NudgeStep float32 = 0.1
	// RotateStep is the angle in degrees of one rotate button press.
	RotateStep float32 = 15
	ScaleMin   float32 = 0.5
	ScaleMax   float32 = 3

	randomSpread float32 = 0.8
	minGrab      float32 = 0.05
)

// Axis names a horizontal axis for Nudge.
type Axis int

const (
	AxisX Axis = 0
	AxisZ Axis = 2
)

// FootingFunc gives the floor-contact height of a furniture type.
type FootingFunc func(typ string) float32

type drag struct {
	id         string
	gizmo      mode.Gizmo
	start      scene.Item
	live       scene.Item
	grab       mgl32.Vec3
	startAngle float32
	startDist  float32
}

// Editor edits the selected item of a scene under the constraints of the current mode.
type Editor struct {
	scene   *scene.Scene
	modes   *mode.Machine
	margin  float32
	footing FootingFunc
	rng     *rand.Rand
	gizmo   mode.Gizmo
	drag    *drag
}

// Option configures an Editor.
type Option func(*Editor)

func WithMargin(m float32) Option { return func(e *Editor) { e.margin = m } }

func WithFooting(fn FootingFunc) Option { return func(e *Editor) { e.footing = fn } }

// WithRand fixes the random source used by Randomize.
func WithRand(r *rand.Rand) Option { return func(e *Editor) { e.rng = r } }

// New returns an editor for sc gated by modes.
func New(sc *scene.Scene, modes *mode.Machine, opts ...Option) *Editor {
	e := &Editor{
		scene:   sc,
		modes:   modes,
		margin:  DefaultMargin,
		footing: func(string) float32 { return 0 },
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Active reports whether something is selected and the mode allows editing.
func (e *Editor) Active() bool {
	if e.modes.Mode() == mode.Tour {
		return false
	}
	_, ok := e.scene.Selected()
	return ok
}

// Gizmo returns the handle in use, falling back to translate where the mode forbids the others.
func (e *Editor) Gizmo() mode.Gizmo {
	if !e.modes.GizmoAllowed(e.gizmo) {
		return mode.GizmoTranslate
	}
	return e.gizmo
}

// SetGizmo picks the handle kind for future drags.
func (e *Editor) SetGizmo(g mode.Gizmo) bool {
	if !e.modes.GizmoAllowed(g) {
		return false
	}
	e.gizmo = g
	return true
}

// Bounds returns the allowed x and z ranges for item positions.
func (e *Editor) Bounds() (minX, maxX, minZ, maxZ float32) {
	hw, hd := e.scene.Room().HalfExtents()
	return -hw + e.margin, hw - e.margin, -hd + e.margin, hd - e.margin
}

// Clamp pulls a position inside the room minus the margin. Y is left alone.
func (e *Editor) Clamp(p mgl32.Vec3) mgl32.Vec3 {
	minX, maxX, minZ, maxZ := e.Bounds()
	p[0] = clampRange(p[0], minX, maxX)
	p[2] = clampRange(p[2], minZ, maxZ)
	return p
}

// clampRange collapses to the midpoint when the room is narrower than twice the margin.
func clampRange(v, lo, hi float32) float32 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return mgl32.Clamp(v, lo, hi)
}

// Dragging reports whether a drag is in progress.
func (e *Editor) Dragging() bool { return e.drag != nil }

// BeginDrag grabs the selected item where r meets its floor plane. It takes the gizmo from the
// mode machine, which suspends orbit input until the drag ends.
func (e *Editor) BeginDrag(r geom.Ray) bool {
	if e.drag != nil || !e.Active() {
		return false
	}
	it, _ := e.scene.Selected()
	hit, ok := r.IntersectPlaneY(it.Position.Y())
	if !ok {
		return false
	}
	if !e.modes.AcquireGizmo() {
		return false
	}
	d := &drag{id: it.ID, gizmo: e.Gizmo(), start: it, live: it}
	// Every commit lands inside the bounds, even a click with no movement.
	d.live.Position = e.Clamp(it.Position)
	rel := hit.Sub(it.Position)
	d.grab = mgl32.Vec3{-rel[0], 0, -rel[2]}
	d.startAngle = math32.Atan2(rel[0], rel[2])
	d.startDist = math32.Max(hypot(rel[0], rel[2]), minGrab)
	e.drag = d
	return true
}

// Drag moves the live transform toward the pointer ray and returns it. The scene is not touched.
func (e *Editor) Drag(r geom.Ray) (scene.Item, bool) {
	d := e.drag
	if d == nil {
		return scene.Item{}, false
	}
	hit, ok := r.IntersectPlaneY(d.start.Position.Y())
	if !ok {
		return d.live, true
	}
	switch d.gizmo {
	case mode.GizmoRotate:
		rel := hit.Sub(d.start.Position)
		angle := math32.Atan2(rel[0], rel[2])
		d.live.Rotation[1] = d.start.Rotation[1] + angle - d.startAngle
	case mode.GizmoScale:
		rel := hit.Sub(d.start.Position)
		dist := math32.Max(hypot(rel[0], rel[2]), minGrab)
		s := clampScale(d.start.Scale[0] * dist / d.startDist)
		d.live.Scale = mgl32.Vec3{s, s, s}
	default:
		d.live.Position = e.onFloor(d.start.Type, hit.Add(d.grab))
	}
	return d.live, true
}

// Preview returns the transform being dragged, if any.
func (e *Editor) Preview() (scene.Item, bool) {
	if e.drag == nil {
		return scene.Item{}, false
	}
	return e.drag.live, true
}

// EndDrag commits the live transform with a single update and releases the gizmo.
func (e *Editor) EndDrag() bool {
	d := e.drag
	if d == nil {
		return false
	}
	e.drag = nil
	e.modes.ReleaseGizmo()
	return e.scene.UpdateItem(d.id, scene.Transform(d.live.Position, d.live.Rotation, d.live.Scale))
}

// CancelDrag drops the live transform without writing it.
func (e *Editor) CancelDrag() {
	if e.drag == nil {
		return
	}
	e.drag = nil
	e.modes.ReleaseGizmo()
}

func (e *Editor) onFloor(typ string, p mgl32.Vec3) mgl32.Vec3 {
	p = e.Clamp(p)
	p[1] = e.footing(typ)
	return p
}

func clampScale(s float32) float32 { return mgl32.Clamp(s, ScaleMin, ScaleMax) }

func hypot(x, z float32) float32 { return math32.Sqrt(x*x + z*z) }

func (e *Editor) selected() (scene.Item, bool) {
	if e.drag != nil || !e.Active() {
		return scene.Item{}, false
	}
	return e.scene.Selected()
}

// Nudge moves the selection by delta along a horizontal axis, staying inside the bounds.
func (e *Editor) Nudge(axis Axis, delta float32) bool {
	it, ok := e.selected()
	if !ok || (axis != AxisX && axis != AxisZ) {
		return false
	}
	p := it.Position
	p[axis] += delta
	p = e.Clamp(p)
	return e.scene.UpdateItem(it.ID, scene.Patch{Position: &p})
}

// RotateY turns the selection by deg degrees about the up axis and pulls it inside the bounds.
func (e *Editor) RotateY(deg float32) bool {
	it, ok := e.selected()
	if !ok {
		return false
	}
	r := it.Rotation
	r[1] += mgl32.DegToRad(deg)
	p := e.Clamp(it.Position)
	return e.scene.UpdateItem(it.ID, scene.Patch{Position: &p, Rotation: &r})
}

// Randomize drops the selection somewhere in the inner 80% of the room with a random heading.
func (e *Editor) Randomize() bool {
	it, ok := e.selected()
	if !ok {
		return false
	}
	hw, hd := e.scene.Room().HalfExtents()
	x := (e.rng.Float32()*2 - 1) * hw * randomSpread
	z := (e.rng.Float32()*2 - 1) * hd * randomSpread
	p := e.onFloor(it.Type, mgl32.Vec3{x, 0, z})
	r := mgl32.Vec3{0, e.rng.Float32() * 2 * math32.Pi, 0}
	return e.scene.UpdateItem(it.ID, scene.Patch{Position: &p, Rotation: &r})
}

// Center moves the selection back to the middle of the room.
func (e *Editor) Center() bool {
	it, ok := e.selected()
	if !ok {
		return false
	}
	p := e.onFloor(it.Type, mgl32.Vec3{})
	return e.scene.UpdateItem(it.ID, scene.Patch{Position: &p})
}

// SetScale applies a uniform scale, clamped to [ScaleMin, ScaleMax].
func (e *Editor) SetScale(s float32) bool {
	it, ok := e.selected()
	if !ok {
		return false
	}
	s = clampScale(s)
	v := mgl32.Vec3{s, s, s}
	return e.scene.UpdateItem(it.ID, scene.Patch{Scale: &v})
}

// SetColor recolours the selection.
func (e *Editor) SetColor(c string) bool {
	it, ok := e.selected()
	if !ok {
		return false
	}
	return e.scene.UpdateItem(it.ID, scene.Patch{Color: &c})
}

// Measurements are distances from the selection to the walls, rounded to centimetres.
type Measurements struct {
	Left, Right, Back, Front float32
	FromCenter               float32
}

// Measure reports the wall distances of the selection, or of the live drag transform.
func (e *Editor) Measure() (Measurements, bool) {
	it, ok := e.Preview()
	if !ok {
		if it, ok = e.scene.Selected(); !ok {
			return Measurements{}, false
		}
	}
	hw, hd := e.scene.Room().HalfExtents()
	x, z := it.Position[0], it.Position[2]
	round := func(v float32) float32 { return math32.Round(v*100) / 100 }
	return Measurements{
		Left:       round(hw + x),
		Right:      round(hw - x),
		Back:       round(hd + z),
		Front:      round(hd - z),
		FromCenter: round(hypot(x, z)),
	}, true
}
