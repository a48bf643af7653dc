// Package tour is the first-person walk-through: WASD movement with sprint, mouse look, FOV on
// the wheel, head bob, wall clamping and furniture blocking with axis sliding.
package tour

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"room-designer/internal/cell"
	"room-designer/internal/collision"
	"room-designer/internal/geom"
	"room-designer/internal/input"
	"room-designer/internal/mode"
	"room-designer/internal/scene"
)

// Config holds the locomotion tuning.
type Config struct {
	Speed             float32 // metres per second
	SprintMultiplier  float32
	EyeHeight         float32
	ChestHeight       float32
	WallMargin        float32
	CollisionDistance float32
	FOVMin, FOVMax    float32
	FOVDefault        float32
	FOVStep           float32 // degrees per wheel step
	Sensitivity       float32 // radians per pixel
	PitchLimit        float32 // radians
	BobFrequency      float32 // radians per second
	BobAmplitude      float32
	SprintBobScale    float32
	BobSettle         float32 // exponential ease rate back to eye height
	PoseEvery         uint64  // frames between pose reports
	RefreshEvery      uint64  // frames between collidable cache refreshes
	Spawn             mgl32.Vec3
}

// DefaultConfig returns the standard walking feel.
func DefaultConfig() Config {
	return Config{
		Speed:             5,
		SprintMultiplier:  1.8,
		EyeHeight:         1.6,
		ChestHeight:       1.2,
		WallMargin:        0.3,
		CollisionDistance: 0.8,
		FOVMin:            20,
		FOVMax:            90,
		FOVDefault:        75,
		FOVStep:           2,
		Sensitivity:       0.002,
		PitchLimit:        mgl32.DegToRad(85),
		BobFrequency:      10,
		BobAmplitude:      0.05,
		SprintBobScale:    1.5,
		BobSettle:         10,
		PoseEvery:         5,
		RefreshEvery:      60,
		Spawn:             mgl32.Vec3{0, 1.6, 5},
	}
}

// Flags are the held movement keys.
type Flags struct {
	Forward, Backward, Left, Right bool
	Sprint                         bool
}

// Obstacles supplies the furniture blocking columns.
type Obstacles interface {
	Collidables() []geom.AABB
}

// Controller owns the player pose for the lifetime of one tour session.
type Controller struct {
	cfg       Config
	obstacles Obstacles
	room      scene.RoomConfig

	flags  Flags
	pos    mgl32.Vec3
	yaw    float32
	pitch  float32
	fov    float32
	bob    float32
	moving bool
	frame  uint64
	cache  []geom.AABB
	locked bool
	active bool
	subs   []*input.Subscription

	pose    *cell.Cell[func(scene.PlayerPose)]
	overlay *cell.Cell[func(bool)]
}

// New returns an idle controller.
func New(cfg Config, obstacles Obstacles) *Controller {
	return &Controller{
		cfg:       cfg,
		obstacles: obstacles,
		fov:       cfg.FOVDefault,
		pose:      &cell.Cell[func(scene.PlayerPose)]{},
		overlay:   &cell.Cell[func(bool)]{},
	}
}

// OnPose sets the pose sink. It can be swapped at any time, including mid-session.
func (c *Controller) OnPose(fn func(scene.PlayerPose)) { c.pose.Set(fn) }

// OnOverlay sets the sink told when the instructions overlay should show or hide.
func (c *Controller) OnOverlay(fn func(visible bool)) { c.overlay.Set(fn) }

// Start begins a session in room, subscribing to bus until Stop.
func (c *Controller) Start(bus *input.Bus, room scene.RoomConfig) {
	if c.active {
		c.Stop()
	}
	c.room = room
	c.active = true
	c.flags = Flags{}
	c.pos = c.clamp(c.cfg.Spawn)
	c.pos[1] = c.cfg.EyeHeight
	c.yaw, c.pitch, c.bob = 0, 0, 0
	c.fov = c.cfg.FOVDefault
	c.frame = 0
	c.refresh()
	c.subs = append(c.subs, bus.Subscribe(c.handle))
	c.setOverlay(true)
}

// Stop ends the session: listeners are cancelled before it returns and every flag is cleared.
func (c *Controller) Stop() {
	for _, s := range c.subs {
		s.Cancel()
	}
	c.subs = nil
	c.flags = Flags{}
	c.locked = false
	c.active = false
	c.moving = false
	c.setOverlay(false)
}

func (c *Controller) Active() bool { return c.active }

func (c *Controller) Locked() bool { return c.locked }

func (c *Controller) Flags() Flags { return c.flags }

func (c *Controller) FOV() float32 { return c.fov }

// Position is the eye position.
func (c *Controller) Position() mgl32.Vec3 { return c.pos }

// Pose is the floor position and facing.
func (c *Controller) Pose() scene.PlayerPose {
	return scene.PlayerPose{X: c.pos[0], Z: c.pos[2], Yaw: c.yaw}
}

// Place moves the player, clamped to the room. Used for spawning and tests.
func (c *Controller) Place(x, z, yaw float32) {
	p := c.clamp(mgl32.Vec3{x, c.pos[1], z})
	c.pos = p
	c.yaw = yaw
}

// Lock captures the pointer and hides the overlay.
func (c *Controller) Lock() {
	if !c.active {
		return
	}
	c.locked = true
	c.setOverlay(false)
}

// Unlock releases the pointer, stops movement and shows the overlay.
func (c *Controller) Unlock() {
	c.locked = false
	c.flags = Flags{}
	if c.active {
		c.setOverlay(true)
	}
}

func (c *Controller) setOverlay(v bool) {
	if fn, ok := c.overlay.Get(); ok && fn != nil {
		fn(v)
	}
}

func (c *Controller) handle(ev input.Event) {
	switch ev.Kind {
	case input.KeyDown, input.KeyUp:
		down := ev.Kind == input.KeyDown
		switch ev.Action {
		case input.ActionForward:
			c.flags.Forward = down
		case input.ActionBackward:
			c.flags.Backward = down
		case input.ActionLeft:
			c.flags.Left = down
		case input.ActionRight:
			c.flags.Right = down
		case input.ActionSprint:
			c.flags.Sprint = down
		case input.ActionRelease:
			if down {
				c.Unlock()
			}
		}
	case input.Wheel:
		c.Zoom(ev.Delta)
	case input.PointerMove:
		c.Look(ev.DX, ev.DY)
	case input.PointerDown:
		if !c.locked {
			c.Lock()
		}
	case input.Blur:
		c.flags = Flags{}
	}
}

// Look turns the view by a pointer delta. Ignored unless the pointer is locked.
func (c *Controller) Look(dx, dy float32) {
	if !c.locked {
		return
	}
	c.yaw -= dx * c.cfg.Sensitivity
	c.pitch = mgl32.Clamp(c.pitch-dy*c.cfg.Sensitivity, -c.cfg.PitchLimit, c.cfg.PitchLimit)
}

// Zoom narrows the field of view for positive wheel steps.
func (c *Controller) Zoom(steps float32) {
	c.fov = mgl32.Clamp(c.fov-steps*c.cfg.FOVStep, c.cfg.FOVMin, c.cfg.FOVMax)
}

// SetKeys overrides the held flags.
func (c *Controller) SetKeys(f Flags) { c.flags = f }

// Displacement is the intended horizontal move for dt given the held keys.
func (c *Controller) Displacement(dt float32) mgl32.Vec3 {
	front := b2f(c.flags.Forward) - b2f(c.flags.Backward)
	side := b2f(c.flags.Right) - b2f(c.flags.Left)
	local := mgl32.Vec3{side, 0, -front}
	if local.Len() == 0 {
		return mgl32.Vec3{}
	}
	speed := c.cfg.Speed
	if c.flags.Sprint {
		speed *= c.cfg.SprintMultiplier
	}
	return geom.RotateY(local.Normalize(), c.yaw).Mul(speed * dt)
}

func b2f(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Update runs one frame. The camera is written only if the caller holds first-person ownership.
func (c *Controller) Update(dt float32, cam *mode.CameraState) {
	if !c.active {
		return
	}
	if c.locked {
		c.frame++
		delta := c.Displacement(dt)
		c.moving = delta.Len() > 0
		next := c.Resolve(c.pos, delta)
		c.pos[0], c.pos[2] = next[0], next[2]
		c.headBob(dt)

		if c.cfg.PoseEvery > 0 && c.frame%c.cfg.PoseEvery == 0 {
			if fn, ok := c.pose.Get(); ok && fn != nil {
				fn(c.Pose())
			}
		}
		if c.cfg.RefreshEvery > 0 && c.frame%c.cfg.RefreshEvery == 0 {
			c.refresh()
		}
	}
	if cam != nil {
		cam.Position = c.pos
		cam.Target = c.pos.Add(geom.LookDir(c.yaw, c.pitch))
		cam.Up = geom.Up
		cam.Yaw = c.yaw
		cam.Pitch = c.pitch
		cam.FOV = c.fov
	}
}

func (c *Controller) headBob(dt float32) {
	eye := c.cfg.EyeHeight
	if c.moving {
		rate := c.cfg.BobFrequency
		if c.flags.Sprint {
			rate *= c.cfg.SprintBobScale
		}
		c.bob += dt * rate
		c.pos[1] = eye + math32.Sin(c.bob)*c.cfg.BobAmplitude
		return
	}
	c.pos[1] += (eye - c.pos[1]) * (1 - math32.Exp(-c.cfg.BobSettle*dt))
}

// Refresh re-reads the collidable columns immediately.
func (c *Controller) Refresh() { c.refresh() }

func (c *Controller) refresh() {
	if c.obstacles == nil {
		c.cache = nil
		return
	}
	c.cache = c.obstacles.Collidables()
}

// Resolve applies delta to from. The move is first clamped to the room; if a chest-height ray
// along delta hits furniture the X-only and then Z-only slides are tried, otherwise the player
// stays put. A zero delta skips every collision query.
func (c *Controller) Resolve(from, delta mgl32.Vec3) mgl32.Vec3 {
	delta[1] = 0
	if delta.Len() == 0 {
		return c.clamp(from)
	}
	chest := mgl32.Vec3{from[0], c.cfg.ChestHeight, from[2]}
	dist := c.cfg.CollisionDistance
	if !collision.Blocked(c.cache, chest, delta, dist) {
		return c.clamp(from.Add(delta))
	}
	if dx := (mgl32.Vec3{delta[0], 0, 0}); dx.Len() > 0 && !collision.Blocked(c.cache, chest, dx, dist) {
		return c.clamp(from.Add(dx))
	}
	if dz := (mgl32.Vec3{0, 0, delta[2]}); dz.Len() > 0 && !collision.Blocked(c.cache, chest, dz, dist) {
		return c.clamp(from.Add(dz))
	}
	return c.clamp(from)
}

func (c *Controller) clamp(p mgl32.Vec3) mgl32.Vec3 {
	hw, hd := c.room.HalfExtents()
	m := c.cfg.WallMargin
	p[0] = clampAxis(p[0], hw-m)
	p[2] = clampAxis(p[2], hd-m)
	return p
}

func clampAxis(v, limit float32) float32 {
	if limit <= 0 {
		return 0
	}
	return mgl32.Clamp(v, -limit, limit)
}
