// Package collision keeps an explicit side-table of the room geometry tagged by owning furniture
// id, so gaze and locomotion queries never have to inspect renderer state.
package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"room-designer/internal/geom"
	"room-designer/internal/scene"
)

// StepHeight is the tallest item the player walks over without being blocked.
const StepHeight float32 = 0.15

// floorThickness is how far the floor slab extends below y = 0.
const floorThickness float32 = 0.1

// Node is one entry of the side-table. Furniture items get an untagged-geometry root carrying the
// owner id with one solid child per part; walls and floor are solid roots with no owner.
type Node struct {
	Parent int
	Owner  string
	Type   string
	Box    geom.AABB
	Solid  bool
}

// ShapeFunc returns the part boxes of an item in world space.
type ShapeFunc func(scene.Item) []geom.AABB

// Hit is the nearest solid node along a ray.
type Hit struct {
	Node     int
	Distance float32
	Point    mgl32.Vec3
}

// World is rebuilt from the scene whenever its revision changes.
type World struct {
	shape    ShapeFunc
	nodes    []Node
	columns  []geom.AABB
	revision uint64
	built    bool
}

// NewWorld returns an empty world that derives item geometry from shape.
func NewWorld(shape ShapeFunc) *World {
	return &World{shape: shape}
}

// Sync rebuilds from s if it changed since the last build. It reports whether a rebuild ran.
func (w *World) Sync(s *scene.Scene) bool {
	if w.built && s.Revision() == w.revision {
		return false
	}
	w.Rebuild(s.Room(), s.Items())
	w.revision = s.Revision()
	return true
}

// Invalidate forces the next Sync to rebuild.
func (w *World) Invalidate() { w.built = false }

// Rebuild replaces every node from the room and items.
func (w *World) Rebuild(room scene.RoomConfig, items []scene.Item) {
	w.nodes = w.nodes[:0]
	w.columns = w.columns[:0]
	w.addRoom(room)
	for _, it := range items {
		parts := w.shape(it)
		if len(parts) == 0 {
			continue
		}
		root := len(w.nodes)
		bounds := parts[0]
		for _, p := range parts[1:] {
			bounds = bounds.Union(p)
		}
		w.nodes = append(w.nodes, Node{Parent: -1, Owner: it.ID, Type: it.Type, Box: bounds})
		for _, p := range parts {
			w.nodes = append(w.nodes, Node{Parent: root, Type: it.Type, Box: p, Solid: true})
		}
		if bounds.Max[1] > StepHeight {
			col := bounds
			col.Min[1] = math32.Min(col.Min[1], 0)
			col.Max[1] = math32.Max(col.Max[1], scene.WallHeight)
			w.columns = append(w.columns, col)
		}
	}
	w.built = true
}

func (w *World) addRoom(room scene.RoomConfig) {
	hw, hd := room.HalfExtents()
	t := scene.WallThickness / 2
	h := scene.WallHeight
	w.nodes = append(w.nodes,
		Node{Parent: -1, Type: "floor", Solid: true, Box: geom.AABB{
			Min: mgl32.Vec3{-hw, -floorThickness, -hd}, Max: mgl32.Vec3{hw, 0, hd}}},
		Node{Parent: -1, Type: "wall", Solid: true, Box: geom.AABB{
			Min: mgl32.Vec3{-hw - t, 0, -hd - t}, Max: mgl32.Vec3{hw + t, h, -hd + t}}},
		Node{Parent: -1, Type: "wall", Solid: true, Box: geom.AABB{
			Min: mgl32.Vec3{-hw - t, 0, hd - t}, Max: mgl32.Vec3{hw + t, h, hd + t}}},
		Node{Parent: -1, Type: "wall", Solid: true, Box: geom.AABB{
			Min: mgl32.Vec3{-hw - t, 0, -hd - t}, Max: mgl32.Vec3{-hw + t, h, hd + t}}},
		Node{Parent: -1, Type: "wall", Solid: true, Box: geom.AABB{
			Min: mgl32.Vec3{hw - t, 0, -hd - t}, Max: mgl32.Vec3{hw + t, h, hd + t}}},
	)
}

// Len is the number of nodes in the table.
func (w *World) Len() int { return len(w.nodes) }

// Node returns node i.
func (w *World) Node(i int) Node { return w.nodes[i] }

// Raycast returns the nearest solid node hit within maxDist.
func (w *World) Raycast(r geom.Ray, maxDist float32) (Hit, bool) {
	best := Hit{Node: -1, Distance: maxDist}
	found := false
	for i, n := range w.nodes {
		if !n.Solid {
			continue
		}
		t, ok := r.IntersectAABB(n.Box, maxDist)
		if !ok || t > best.Distance {
			continue
		}
		if found && t == best.Distance {
			continue
		}
		best = Hit{Node: i, Distance: t, Point: r.At(t)}
		found = true
	}
	return best, found
}

// OwnerOf walks the parent chain of node i up to the first furniture id.
func (w *World) OwnerOf(i int) (string, bool) {
	for i >= 0 && i < len(w.nodes) {
		n := w.nodes[i]
		if n.Owner != "" {
			return n.Owner, true
		}
		i = n.Parent
	}
	return "", false
}

// Collidables returns a copy of the furniture blocking columns. Each column spans the item
// footprint from the floor to wall height.
func (w *World) Collidables() []geom.AABB {
	out := make([]geom.AABB, len(w.columns))
	copy(out, w.columns)
	return out
}

// Blocked reports whether a ray from origin along dir hits any column within dist.
// A zero direction never blocks, and neither does a column the origin is already inside of.
func Blocked(columns []geom.AABB, origin, dir mgl32.Vec3, dist float32) bool {
	if dir.Len() == 0 {
		return false
	}
	r := geom.Ray{Origin: origin, Dir: dir.Normalize()}
	for _, c := range columns {
		if c.Contains(origin) {
			continue
		}
		if _, ok := r.IntersectAABB(c, dist); ok {
			return true
		}
	}
	return false
}
