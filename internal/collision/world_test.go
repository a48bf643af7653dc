package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"room-designer/internal/geom"
	"room-designer/internal/scene"
)

// cube gives every item a 1 m cube part plus a thin top so parent walks are exercised.
func cube(it scene.Item) []geom.AABB {
	base := geom.BoxAt(it.Position.Add(mgl32.Vec3{0, 0.45, 0}), mgl32.Vec3{0.5, 0.45, 0.5})
	top := geom.BoxAt(it.Position.Add(mgl32.Vec3{0, 0.95, 0}), mgl32.Vec3{0.5, 0.05, 0.5})
	if it.Type == "Rug" {
		return []geom.AABB{geom.BoxAt(it.Position.Add(mgl32.Vec3{0, 0.01, 0}), mgl32.Vec3{1, 0.01, 1})}
	}
	return []geom.AABB{base, top}
}

func newTestWorld() *World {
	w := NewWorld(cube)
	w.Rebuild(scene.DefaultRoom(), []scene.Item{
		{ID: "cab", Type: "Cabinet", Position: mgl32.Vec3{0, 0, -4}},
		{ID: "rug", Type: "Rug", Position: mgl32.Vec3{3, 0, 3}},
	})
	return w
}

func TestRaycastFindsOwner(t *testing.T) {
	w := newTestWorld()
	hit, ok := w.Raycast(geom.Ray{Origin: mgl32.Vec3{0, 0.5, 0}, Dir: mgl32.Vec3{0, 0, -1}}, 15)
	if !ok {
		t.Fatal("expected a hit")
	}
	owner, ok := w.OwnerOf(hit.Node)
	if !ok || owner != "cab" {
		t.Errorf("owner = %q, %v; want cab", owner, ok)
	}
	if hit.Distance < 3.49 || hit.Distance > 3.51 {
		t.Errorf("distance = %v, want 3.5", hit.Distance)
	}
}

func TestRaycastWallHasNoOwner(t *testing.T) {
	w := newTestWorld()
	hit, ok := w.Raycast(geom.Ray{Origin: mgl32.Vec3{0, 1.6, 0}, Dir: mgl32.Vec3{1, 0, 0}}, 15)
	if !ok {
		t.Fatal("expected to hit the east wall")
	}
	if w.Node(hit.Node).Type != "wall" {
		t.Errorf("hit %q, want wall", w.Node(hit.Node).Type)
	}
	if _, ok := w.OwnerOf(hit.Node); ok {
		t.Error("wall should have no owner")
	}
}

func TestRaycastRange(t *testing.T) {
	w := newTestWorld()
	if _, ok := w.Raycast(geom.Ray{Origin: mgl32.Vec3{0, 0.5, 0}, Dir: mgl32.Vec3{0, 0, -1}}, 2); ok {
		t.Error("cabinet 3.5 m away should be out of a 2 m range")
	}
}

func TestCollidablesSkipLowItems(t *testing.T) {
	w := newTestWorld()
	cols := w.Collidables()
	if len(cols) != 1 {
		t.Fatalf("columns = %d, want 1 (rug is walkable)", len(cols))
	}
	if cols[0].Max.Y() != scene.WallHeight || cols[0].Min.Y() != 0 {
		t.Errorf("column spans %v..%v, want floor to wall height", cols[0].Min.Y(), cols[0].Max.Y())
	}
}

func TestBlocked(t *testing.T) {
	cols := []geom.AABB{{Min: mgl32.Vec3{-0.5, 0, 0.25}, Max: mgl32.Vec3{0.5, 5, 0.75}}}
	chest := mgl32.Vec3{0, 1.2, 0}
	tests := []struct {
		name string
		dir  mgl32.Vec3
		want bool
	}{
		{"toward", mgl32.Vec3{0, 0, 1}, true},
		{"away", mgl32.Vec3{0, 0, -1}, false},
		{"sideways", mgl32.Vec3{1, 0, 0}, false},
		{"zero", mgl32.Vec3{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blocked(cols, chest, tt.dir, 0.8); got != tt.want {
				t.Errorf("Blocked = %v, want %v", got, tt.want)
			}
		})
	}
	if Blocked(cols, mgl32.Vec3{0, 1.2, 0.5}, mgl32.Vec3{0, 0, 1}, 0.8) {
		t.Error("a player inside a column must be able to walk out")
	}
}

func TestSyncFollowsRevision(t *testing.T) {
	s := scene.New(scene.DefaultRoom())
	w := NewWorld(cube)
	if !w.Sync(s) {
		t.Fatal("first Sync should build")
	}
	if w.Sync(s) {
		t.Error("Sync without changes should not rebuild")
	}
	s.AddItem("Chair")
	if !w.Sync(s) {
		t.Error("Sync after AddItem should rebuild")
	}
	if len(w.Collidables()) != 1 {
		t.Errorf("columns = %d, want 1", len(w.Collidables()))
	}
}
