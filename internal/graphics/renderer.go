package graphics

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/designer"
	"room-designer/internal/geom"
	"room-designer/internal/mode"
	"room-designer/internal/primitives"
	"room-designer/internal/scene"
)

var (
	selectionColor = rl.NewColor(250, 204, 21, 255)
	gridColor      = rl.NewColor(0, 0, 0, 40)
	fallbackColor  = color.NRGBA{R: 136, G: 136, B: 136, A: 255}
)

// Renderer draws the room and furniture of a controller with the primitive registry.
type Renderer struct {
	ctl   *designer.Controller
	prims *primitives.Registry
	// Grid toggles the one-metre floor grid in the edit views.
	Grid bool
}

func NewRenderer(ctl *designer.Controller, prims *primitives.Registry) *Renderer {
	return &Renderer{ctl: ctl, prims: prims, Grid: true}
}

// Camera converts the controller camera to raylib.
func (r *Renderer) Camera() rl.Camera3D {
	cam := r.ctl.Modes().Camera()
	up := cam.Up
	if up.Len() == 0 {
		up = geom.Up
	}
	fov := cam.FOV
	if fov <= 0 {
		fov = 50
	}
	return rl.Camera3D{
		Position:   rl.NewVector3(cam.Position[0], cam.Position[1], cam.Position[2]),
		Target:     rl.NewVector3(cam.Target[0], cam.Target[1], cam.Target[2]),
		Up:         rl.NewVector3(up[0], up[1], up[2]),
		Fovy:       fov,
		Projection: rl.CameraPerspective,
	}
}

// Sky is the clear colour of the current lighting mode.
func (r *Renderer) Sky() rl.Color {
	return primitives.LightingFor(r.ctl.Scene().Room().Lighting).Sky
}

// PointerRay is the world ray under the mouse.
func (r *Renderer) PointerRay() geom.Ray {
	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), r.Camera())
	return geom.Ray{
		Origin: [3]float32{ray.Position.X, ray.Position.Y, ray.Position.Z},
		Dir:    [3]float32{ray.Direction.X, ray.Direction.Y, ray.Direction.Z},
	}
}

func rgba(c color.NRGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

// Draw3D draws the room and every item. The dragged item is drawn at its live transform.
func (r *Renderer) Draw3D() {
	cam := r.Camera()
	room := r.ctl.Scene().Room()
	r.prims.SetView([3]float32{cam.Position.X, cam.Position.Y, cam.Position.Z}, room.Lighting)

	rl.BeginMode3D(cam)
	defer rl.EndMode3D()

	r.drawRoom(room, cam.Position)
	if r.Grid && r.ctl.Modes().Mode() != mode.Tour {
		r.drawGrid(room)
	}

	cat := r.ctl.Catalog()
	selected := r.ctl.Scene().SelectedID()
	for _, it := range r.ctl.RenderItems() {
		def := cat.Def(it.Type)
		col := rgba(scene.ParseColor(it.Color, scene.ParseColor(def.Color, fallbackColor)))
		boxes := def.Boxes(it)
		for i, b := range boxes {
			// The last part of an emissive item is its shade.
			if def.Emissive && i == len(boxes)-1 {
				r.prims.DrawGlowBox(b, col)
				continue
			}
			r.prims.DrawBox(b, col)
		}
		if it.ID == selected && len(boxes) > 0 {
			b := def.Bounds(it)
			c, s := b.Center(), b.Size()
			rl.DrawCubeWiresV(rl.NewVector3(c[0], c[1], c[2]), rl.NewVector3(s[0]+0.02, s[1]+0.02, s[2]+0.02), selectionColor)
		}
	}
}

// drawRoom draws the floor and the walls. From outside the room, walls between the camera and the
// floor are skipped so the interior stays visible.
func (r *Renderer) drawRoom(room scene.RoomConfig, eye rl.Vector3) {
	hw, hd := room.HalfExtents()
	floor := rgba(scene.ParseColor(room.FloorColor, fallbackColor))
	wall := rgba(scene.ParseColor(room.WallColor, fallbackColor))
	r.prims.DrawFloor(room.Width, room.Depth, 0, floor)

	t := scene.WallThickness / 2
	h := scene.WallHeight
	walls := []struct {
		box    geom.AABB
		hidden bool
	}{
		{geom.AABB{Min: [3]float32{-hw - t, 0, -hd - t}, Max: [3]float32{hw + t, h, -hd + t}}, eye.Z < -hd},
		{geom.AABB{Min: [3]float32{-hw - t, 0, hd - t}, Max: [3]float32{hw + t, h, hd + t}}, eye.Z > hd},
		{geom.AABB{Min: [3]float32{-hw - t, 0, -hd - t}, Max: [3]float32{-hw + t, h, hd + t}}, eye.X < -hw},
		{geom.AABB{Min: [3]float32{hw - t, 0, -hd - t}, Max: [3]float32{hw + t, h, hd + t}}, eye.X > hw},
	}
	for _, w := range walls {
		if !w.hidden {
			r.prims.DrawBox(w.box, wall)
		}
	}
}

func (r *Renderer) drawGrid(room scene.RoomConfig) {
	hw, hd := room.HalfExtents()
	const y = 0.005
	for x := float32(int(-hw)); x <= hw; x++ {
		rl.DrawLine3D(rl.NewVector3(x, y, -hd), rl.NewVector3(x, y, hd), gridColor)
	}
	for z := float32(int(-hd)); z <= hd; z++ {
		rl.DrawLine3D(rl.NewVector3(-hw, y, z), rl.NewVector3(hw, y, z), gridColor)
	}
}
