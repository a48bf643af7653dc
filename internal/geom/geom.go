// Package geom holds the small amount of 3D math shared by the editor, the
// collision side-table and the first-person controller. Yaw 0 faces -Z.
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Up is the world up axis.
var Up = mgl32.Vec3{0, 1, 0}

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min, Max mgl32.Vec3
}

// BoxAt returns the box centred on c with the given half extents.
func BoxAt(c, half mgl32.Vec3) AABB {
	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

func (b AABB) Center() mgl32.Vec3 { return b.Min.Add(b.Max).Mul(0.5) }
func (b AABB) Size() mgl32.Vec3 { return b.Max.Sub(b.Min) }

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Union returns the smallest box enclosing both.
func (b AABB) Union(o AABB) AABB {
	var out AABB
	for i := 0; i < 3; i++ {
		out.Min[i] = math32.Min(b.Min[i], o.Min[i])
		out.Max[i] = math32.Max(b.Max[i], o.Max[i])
	}
	return out
}

// Ray is a half-line. Dir is expected to be normalized for distances to be in world units.
type Ray struct {
	Origin, Dir mgl32.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 { return r.Origin.Add(r.Dir.Mul(t)) }

// IntersectAABB runs the slab test against b and returns the entry distance.
// A ray starting inside the box hits at distance 0. Hits beyond maxDist are misses.
func (r Ray) IntersectAABB(b AABB, maxDist float32) (float32, bool) {
	tmin := float32(0)
	tmax := maxDist
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Dir[i]
		if d == 0 {
			if o < b.Min[i] || o > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (b.Min[i] - o) * inv
		t2 := (b.Max[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// IntersectPlaneY returns where the ray crosses the horizontal plane y = h.
func (r Ray) IntersectPlaneY(h float32) (mgl32.Vec3, bool) {
	if math32.Abs(r.Dir[1]) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := (h - r.Origin[1]) / r.Dir[1]
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}

// Forward is the horizontal facing direction for a yaw.
func Forward(yaw float32) mgl32.Vec3 {
	return mgl32.Vec3{-math32.Sin(yaw), 0, -math32.Cos(yaw)}
}

// Right is the horizontal strafe direction for a yaw.
func Right(yaw float32) mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(yaw), 0, -math32.Sin(yaw)}
}

// LookDir is the unit view direction for a yaw/pitch pair.
func LookDir(yaw, pitch float32) mgl32.Vec3 {
	cp := math32.Cos(pitch)
	return mgl32.Vec3{-math32.Sin(yaw) * cp, math32.Sin(pitch), -math32.Cos(yaw) * cp}
}

// RotateY rotates v about the up axis by yaw radians, consistent with Forward and Right.
func RotateY(v mgl32.Vec3, yaw float32) mgl32.Vec3 {
	s, c := math32.Sin(yaw), math32.Cos(yaw)
	return mgl32.Vec3{v[0]*c + v[2]*s, v[1], -v[0]*s + v[2]*c}
}

// FootprintHalf returns the half extents of a box of half size (hx, hz) rotated by yaw,
// projected back onto the world axes.
func FootprintHalf(hx, hz, yaw float32) (float32, float32) {
	s, c := math32.Abs(math32.Sin(yaw)), math32.Abs(math32.Cos(yaw))
	return c*hx + s*hz, s*hx + c*hz
}

// Horizontal drops the y component and normalizes; a zero vector stays zero.
func Horizontal(v mgl32.Vec3) mgl32.Vec3 {
	h := mgl32.Vec3{v[0], 0, v[2]}
	if h.Len() == 0 {
		return h
	}
	return h.Normalize()
}

// Round1 rounds to one decimal place.
func Round1(v float32) float32 { return math32.Round(v*10) / 10 }
