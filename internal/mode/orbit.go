package mode

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransitionSeconds is how long the orbit rig takes to settle on a new preset.
const TransitionSeconds float32 = 0.4

// Preset is an orbit pose in spherical coordinates around Target.
type Preset struct {
	Target   mgl32.Vec3
	Distance float32
	Polar    float32
	Azimuth  float32
}

// PresetFromPosition derives a preset looking from pos at target.
func PresetFromPosition(pos, target mgl32.Vec3) Preset {
	d := pos.Sub(target)
	dist := d.Len()
	if dist == 0 {
		return Preset{Target: target, Distance: 1}
	}
	return Preset{
		Target:   target,
		Distance: dist,
		Polar:    math32.Acos(mgl32.Clamp(d.Y()/dist, -1, 1)),
		Azimuth:  math32.Atan2(d.X(), d.Z()),
	}
}

type rigTween struct {
	tweens [5]*gween.Tween
	done   [5]bool
}

// OrbitRig is a camera that circles a target. Polar 0 looks straight down.
type OrbitRig struct {
	Target      mgl32.Vec3
	Distance    float32
	Polar       float32
	Azimuth     float32
	MinPolar    float32
	MaxPolar    float32
	MinDistance float32
	MaxDistance float32

	anim *rigTween
}

// NewOrbitRig starts at p with the full polar range.
func NewOrbitRig(p Preset) *OrbitRig {
	r := &OrbitRig{MaxPolar: math32.Pi, MinDistance: 2, MaxDistance: 40}
	r.Snap(p)
	return r
}

// Snap jumps to p without animating.
func (r *OrbitRig) Snap(p Preset) {
	r.anim = nil
	r.Target = p.Target
	r.Distance = p.Distance
	r.Polar = p.Polar
	r.Azimuth = p.Azimuth
	r.clamp()
}

// AnimateTo eases from the current pose to p over TransitionSeconds.
func (r *OrbitRig) AnimateTo(p Preset) {
	fn := ease.OutCubic
	az := p.Azimuth
	// take the short way round
	for az-r.Azimuth > math32.Pi {
		az -= 2 * math32.Pi
	}
	for az-r.Azimuth < -math32.Pi {
		az += 2 * math32.Pi
	}
	r.anim = &rigTween{tweens: [5]*gween.Tween{
		gween.New(r.Target.X(), p.Target.X(), TransitionSeconds, fn),
		gween.New(r.Target.Z(), p.Target.Z(), TransitionSeconds, fn),
		gween.New(r.Distance, p.Distance, TransitionSeconds, fn),
		gween.New(r.Polar, p.Polar, TransitionSeconds, fn),
		gween.New(r.Azimuth, az, TransitionSeconds, fn),
	}}
}

// Animating reports whether a preset transition is running.
func (r *OrbitRig) Animating() bool { return r.anim != nil }

// Update advances a running transition.
func (r *OrbitRig) Update(dt float32) {
	if r.anim == nil {
		return
	}
	var vals [5]float32
	finished := true
	for i, tw := range r.anim.tweens {
		v, done := tw.Update(dt)
		vals[i] = v
		r.anim.done[i] = r.anim.done[i] || done
		finished = finished && r.anim.done[i]
	}
	r.Target[0], r.Target[2] = vals[0], vals[1]
	r.Distance, r.Polar, r.Azimuth = vals[2], vals[3], vals[4]
	if finished {
		r.anim = nil
	}
	r.clamp()
}

// Rotate orbits by the given azimuth and polar deltas in radians.
func (r *OrbitRig) Rotate(dAzimuth, dPolar float32) {
	r.anim = nil
	r.Azimuth += dAzimuth
	r.Polar += dPolar
	r.clamp()
}

// Pan moves the target across the floor, relative to the current view heading.
func (r *OrbitRig) Pan(dx, dz float32) {
	r.anim = nil
	s, c := math32.Sin(r.Azimuth), math32.Cos(r.Azimuth)
	r.Target[0] += dx*c + dz*s
	r.Target[2] += -dx*s + dz*c
}

// Zoom scales the distance; factors below 1 move closer.
func (r *OrbitRig) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	r.anim = nil
	r.Distance *= factor
	r.clamp()
}

// SetPolarRange limits the polar angle and re-clamps.
func (r *OrbitRig) SetPolarRange(lo, hi float32) {
	r.MinPolar, r.MaxPolar = lo, hi
	r.clamp()
}

func (r *OrbitRig) clamp() {
	if r.anim == nil {
		r.Polar = mgl32.Clamp(r.Polar, r.MinPolar, r.MaxPolar)
	}
	r.Distance = mgl32.Clamp(r.Distance, r.MinDistance, r.MaxDistance)
}

// Position is the camera eye.
func (r *OrbitRig) Position() mgl32.Vec3 {
	sp := math32.Sin(r.Polar)
	off := mgl32.Vec3{sp * math32.Sin(r.Azimuth), math32.Cos(r.Polar), sp * math32.Cos(r.Azimuth)}
	return r.Target.Add(off.Mul(r.Distance))
}

// Up is the camera up vector. Looking straight down it follows the view heading.
func (r *OrbitRig) Up() mgl32.Vec3 {
	if r.Polar < 1e-3 {
		return mgl32.Vec3{-math32.Sin(r.Azimuth), 0, -math32.Cos(r.Azimuth)}
	}
	return mgl32.Vec3{0, 1, 0}
}
