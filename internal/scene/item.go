package scene

import "github.com/go-gl/mathgl/mgl32"

// Item is one placed piece of furniture. Rotation is Euler radians; only Y is edited interactively.
type Item struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
	Color    string     `json:"color"`
}

// Yaw is the rotation about the up axis.
func (it Item) Yaw() float32 { return it.Rotation[1] }

// Patch carries the fields of an Item to overwrite; nil fields are left alone.
type Patch struct {
	Position *mgl32.Vec3
	Rotation *mgl32.Vec3
	Scale    *mgl32.Vec3
	Color    *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Position == nil && p.Rotation == nil && p.Scale == nil && p.Color == nil
}

func (p Patch) apply(it *Item) {
	if p.Position != nil {
		it.Position = *p.Position
	}
	if p.Rotation != nil {
		it.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		it.Scale = *p.Scale
	}
	if p.Color != nil {
		it.Color = *p.Color
	}
}

// Transform builds a patch that sets position, rotation and scale together.
func Transform(pos, rot, scale mgl32.Vec3) Patch {
	return Patch{Position: &pos, Rotation: &rot, Scale: &scale}
}

// Defaults is what a freshly added item of some type starts with.
type Defaults struct {
	Color   string
	Footing float32
}

// DefaultsFunc resolves per-type defaults. The catalog provides one.
type DefaultsFunc func(typ string) Defaults

// FallbackDefaults is used when no catalog is wired. Lamps get a warm light colour.
func FallbackDefaults(typ string) Defaults {
	if typ == "Lamp" {
		return Defaults{Color: "#ffe8a3"}
	}
	return Defaults{Color: "orange"}
}

// PlayerPose is the first-person position on the floor plane and facing. Never persisted.
type PlayerPose struct {
	X, Z, Yaw float32
}
