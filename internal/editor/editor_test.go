package editor

import (
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"room-designer/internal/geom"
	"room-designer/internal/mode"
	"room-designer/internal/scene"
)

func down(x, z float32) geom.Ray {
	return geom.Ray{Origin: mgl32.Vec3{x, 10, z}, Dir: mgl32.Vec3{0, -1, 0}}
}

func near(a, b float32) bool { return math32.Abs(a-b) < 1e-4 }

func setup(t *testing.T) (*scene.Scene, *mode.Machine, *Editor, string) {
	t.Helper()
	sc := scene.New(scene.DefaultRoom())
	m := mode.NewMachine()
	e := New(sc, m, WithRand(rand.New(rand.NewPCG(1, 2))))
	id := sc.AddItem("Chair")
	sc.SetSelected(id)
	return sc, m, e, id
}

func TestDragClampsAndCommitsOnce(t *testing.T) {
	sc, m, e, id := setup(t)

	if !e.BeginDrag(down(0, 0)) {
		t.Fatal("BeginDrag failed")
	}
	if !m.GizmoHeld() {
		t.Error("drag should hold the gizmo")
	}
	rev := sc.Revision()

	live, ok := e.Drag(down(7.6, 0))
	if !ok {
		t.Fatal("Drag returned false")
	}
	if !near(live.Position.X(), 7.0) || live.Position.Y() != 0 {
		t.Errorf("live position = %v, want x clamped to 7.0 on the floor", live.Position)
	}
	e.Drag(down(-20, 20))
	if sc.Revision() != rev {
		t.Error("dragging must not write to the scene")
	}
	if it, _ := sc.Item(id); it.Position != (mgl32.Vec3{}) {
		t.Errorf("scene moved during drag: %v", it.Position)
	}

	if !e.EndDrag() {
		t.Fatal("EndDrag did not commit")
	}
	if sc.Revision() != rev+1 {
		t.Errorf("revision advanced by %d, want exactly one commit", sc.Revision()-rev)
	}
	it, _ := sc.Item(id)
	if !near(it.Position.X(), -7.0) || !near(it.Position.Z(), 7.0) {
		t.Errorf("committed position = %v, want (-7, 0, 7)", it.Position)
	}
	if m.GizmoHeld() {
		t.Error("gizmo should be released after the drag")
	}
	if e.EndDrag() {
		t.Error("second EndDrag must not commit again")
	}
}

func TestDragKeepsGrabOffset(t *testing.T) {
	sc, _, e, id := setup(t)
	e.BeginDrag(down(0.2, 0.1))
	e.Drag(down(1.2, 0.1))
	e.EndDrag()
	it, _ := sc.Item(id)
	if !near(it.Position.X(), 1) || !near(it.Position.Z(), 0) {
		t.Errorf("position = %v, want (1, 0, 0)", it.Position)
	}
}

func TestCancelDragLeavesScene(t *testing.T) {
	sc, m, e, id := setup(t)
	e.BeginDrag(down(0, 0))
	e.Drag(down(3, 3))
	m.Enter(mode.Tour)
	e.CancelDrag()
	if it, _ := sc.Item(id); it.Position != (mgl32.Vec3{}) {
		t.Errorf("cancelled drag moved the item to %v", it.Position)
	}
	if e.Dragging() {
		t.Error("drag still active after cancel")
	}
}

func TestInactiveInTour(t *testing.T) {
	_, m, e, _ := setup(t)
	m.Enter(mode.Tour)
	if e.Active() {
		t.Error("editor must be inactive in tour")
	}
	if e.BeginDrag(down(0, 0)) || e.Nudge(AxisX, 1) || e.Center() {
		t.Error("edits should be refused in tour")
	}
}

func TestInactiveWithoutSelection(t *testing.T) {
	sc, _, e, _ := setup(t)
	sc.SetSelected("")
	if e.Active() || e.SetScale(2) {
		t.Error("editor must be inactive without a selection")
	}
}

func TestNudgeClamps(t *testing.T) {
	sc, _, e, id := setup(t)
	for i := 0; i < 100; i++ {
		e.Nudge(AxisX, NudgeStep)
	}
	it, _ := sc.Item(id)
	if !near(it.Position.X(), 7.0) {
		t.Errorf("x = %v, want 7.0", it.Position.X())
	}
	e.Nudge(AxisZ, -NudgeStep)
	it, _ = sc.Item(id)
	if !near(it.Position.Z(), -0.1) {
		t.Errorf("z = %v, want -0.1", it.Position.Z())
	}
}

// outside moves the selection past the east wall without going through the editor.
func outside(t *testing.T, sc *scene.Scene, id string) {
	t.Helper()
	p := mgl32.Vec3{7.6, 0, 0}
	if !sc.UpdateItem(id, scene.Patch{Position: &p}) {
		t.Fatal("UpdateItem failed")
	}
}

func TestCommitPullsStoredPositionInside(t *testing.T) {
	tests := []struct {
		name  string
		gizmo mode.Gizmo
		drag  bool
	}{
		{"click release", mode.GizmoTranslate, false},
		{"rotate drag", mode.GizmoRotate, true},
		{"scale drag", mode.GizmoScale, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, _, e, id := setup(t)
			outside(t, sc, id)
			if !e.SetGizmo(tt.gizmo) {
				t.Fatalf("gizmo %s not allowed", tt.gizmo)
			}
			if !e.BeginDrag(down(7.6, 1)) {
				t.Fatal("BeginDrag failed")
			}
			if tt.drag {
				e.Drag(down(8.6, 1))
			}
			if !e.EndDrag() {
				t.Fatal("EndDrag did not commit")
			}
			if it, _ := sc.Item(id); !near(it.Position.X(), 7.0) {
				t.Errorf("committed x = %v, want 7.0", it.Position.X())
			}
		})
	}
}

func TestRotateClampsPosition(t *testing.T) {
	sc, _, e, id := setup(t)
	outside(t, sc, id)
	if !e.RotateY(RotateStep) {
		t.Fatal("RotateY failed")
	}
	it, _ := sc.Item(id)
	if !near(it.Position.X(), 7.0) {
		t.Errorf("x = %v, want 7.0", it.Position.X())
	}
	if !near(it.Rotation.Y(), mgl32.DegToRad(RotateStep)) {
		t.Errorf("rotation = %v", it.Rotation)
	}
}

func TestWithMargin(t *testing.T) {
	sc := scene.New(scene.DefaultRoom())
	e := New(sc, mode.NewMachine(), WithMargin(1.5))
	sc.SetSelected(sc.AddItem("Chair"))
	if minX, maxX, _, _ := e.Bounds(); minX != -6 || maxX != 6 {
		t.Errorf("bounds x = [%v, %v], want [-6, 6]", minX, maxX)
	}
	e.Nudge(AxisX, 20)
	if it, _ := sc.Selected(); !near(it.Position.X(), 6) {
		t.Errorf("x = %v, want 6", it.Position.X())
	}
}

func TestRotateAndScale(t *testing.T) {
	sc, _, e, id := setup(t)
	e.RotateY(RotateStep)
	e.RotateY(RotateStep)
	e.SetScale(5)
	it, _ := sc.Item(id)
	if !near(it.Rotation.Y(), mgl32.DegToRad(30)) {
		t.Errorf("yaw = %v, want 30 degrees", it.Rotation.Y())
	}
	if it.Scale != (mgl32.Vec3{ScaleMax, ScaleMax, ScaleMax}) {
		t.Errorf("scale = %v, want clamp to %v", it.Scale, ScaleMax)
	}
	e.SetScale(0.1)
	it, _ = sc.Item(id)
	if it.Scale.X() != ScaleMin {
		t.Errorf("scale = %v, want clamp to %v", it.Scale.X(), ScaleMin)
	}
}

func TestRotateDrag(t *testing.T) {
	sc, _, e, id := setup(t)
	e.SetGizmo(mode.GizmoRotate)
	e.BeginDrag(down(0, 1))
	e.Drag(down(1, 0))
	e.EndDrag()
	it, _ := sc.Item(id)
	if !near(it.Rotation.Y(), math32.Pi/2) {
		t.Errorf("yaw = %v, want pi/2", it.Rotation.Y())
	}
}

func TestBlueprintForcesTranslate(t *testing.T) {
	_, m, e, _ := setup(t)
	e.SetGizmo(mode.GizmoScale)
	m.Enter(mode.Blueprint2D)
	if e.Gizmo() != mode.GizmoTranslate {
		t.Errorf("Gizmo = %v, want translate in blueprint", e.Gizmo())
	}
	if e.SetGizmo(mode.GizmoRotate) {
		t.Error("rotate gizmo should be refused in blueprint")
	}
}

func TestRandomizeStaysInside(t *testing.T) {
	sc, _, e, id := setup(t)
	for i := 0; i < 50; i++ {
		if !e.Randomize() {
			t.Fatal("Randomize failed")
		}
		it, _ := sc.Item(id)
		if math32.Abs(it.Position.X()) > 6 || math32.Abs(it.Position.Z()) > 6 || it.Position.Y() != 0 {
			t.Fatalf("position %v outside 80%% of the room", it.Position)
		}
		if it.Rotation.Y() < 0 || it.Rotation.Y() >= 2*math32.Pi {
			t.Fatalf("yaw %v outside [0, 2pi)", it.Rotation.Y())
		}
	}
	e.Center()
	if it, _ := sc.Item(id); it.Position != (mgl32.Vec3{}) {
		t.Errorf("Center left item at %v", it.Position)
	}
}

func TestMeasure(t *testing.T) {
	sc, _, e, id := setup(t)
	p := mgl32.Vec3{3, 0, -2}
	sc.UpdateItem(id, scene.Patch{Position: &p})
	m, ok := e.Measure()
	if !ok {
		t.Fatal("Measure failed")
	}
	want := Measurements{Left: 10.5, Right: 4.5, Back: 5.5, Front: 9.5, FromCenter: 3.61}
	if m != want {
		t.Errorf("Measure = %+v, want %+v", m, want)
	}
}

func TestTinyRoomCollapsesBounds(t *testing.T) {
	sc := scene.New(scene.RoomConfig{Width: 0.6, Depth: 10})
	e := New(sc, mode.NewMachine())
	p := e.Clamp(mgl32.Vec3{5, 0, 0})
	if p.X() != 0 {
		t.Errorf("x = %v, want 0 in a room narrower than the margins", p.X())
	}
}
