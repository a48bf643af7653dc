// Package designer is the interactive scene controller. It owns the scene, the mode machine and
// every per-mode subsystem, and runs them from a single frame tick.
package designer

import (
	"image"

	"room-designer/internal/capture"
	"room-designer/internal/catalog"
	"room-designer/internal/collision"
	"room-designer/internal/editor"
	"room-designer/internal/geom"
	"room-designer/internal/input"
	"room-designer/internal/logger"
	"room-designer/internal/minimap"
	"room-designer/internal/mode"
	"room-designer/internal/notify"
	"room-designer/internal/persist"
	"room-designer/internal/probe"
	"room-designer/internal/scene"
	"room-designer/internal/tour"
)

const (
	// PickDistance bounds pointer picking in the edit views.
	PickDistance float32 = 100
	// PreviewWidth is the width of the thumbnail stored with a saved design.
	PreviewWidth = 256
)

// Options wires a Controller. Only Catalog is required.
type Options struct {
	UserID   string
	Room     scene.RoomConfig
	Catalog  *catalog.Catalog
	Provider persist.Provider
	Frames   capture.FrameSource // defaults to the blueprint renderer
	Log      *logger.Logger
	Tour     tour.Config
	Editor   []editor.Option
	Minimap  bool
}

// Controller is driven by the frame loop. None of its methods are safe for concurrent use;
// background work reports back through the persist dispatcher.
type Controller struct {
	log     *logger.Logger
	userID  string
	catalog *catalog.Catalog

	scene   *scene.Scene
	modes   *mode.Machine
	editor  *editor.Editor
	world   *collision.World
	tour    *tour.Controller
	probe   *probe.Probe
	minimap *minimap.Projector
	bus     *input.Bus
	persist *persist.Dispatcher
	capture *capture.Capturer
	notes   *notify.Queue

	hover       *probe.Hover
	pose        *scene.PlayerPose
	overlay     bool
	minimapOn   bool
	minimapImg  *image.NRGBA
	minimapRev  uint64
	minimapSeq  uint64
	lastPose    *scene.PlayerPose
	listing     []catalog.Entry
	shotPending bool
	watchStop   func()
}

// New builds a controller in Edit3D over an empty scene.
func New(opts Options) *Controller {
	if opts.Catalog == nil {
		panic("designer: catalog required")
	}
	if !opts.Room.Valid() {
		opts.Room = scene.DefaultRoom()
	}
	if opts.Tour == (tour.Config{}) {
		opts.Tour = tour.DefaultConfig()
	}
	if opts.Log == nil {
		opts.Log = logger.NewWithPath("")
	}

	c := &Controller{
		log:       opts.Log,
		userID:    opts.UserID,
		catalog:   opts.Catalog,
		modes:     mode.NewMachine(),
		probe:     probe.New(),
		minimap:   minimap.New(minimap.DefaultOptions()),
		bus:       input.NewBus(),
		persist:   persist.NewDispatcher(opts.Provider),
		notes:     notify.NewQueue(),
		minimapOn: opts.Minimap,
	}
	c.scene = scene.New(opts.Room, scene.WithDefaults(c.defaults))
	c.world = collision.NewWorld(c.shape)
	c.tour = tour.New(opts.Tour, c.world)
	edOpts := append([]editor.Option{editor.WithFooting(c.footing)}, opts.Editor...)
	c.editor = editor.New(c.scene, c.modes, edOpts...)

	frames := opts.Frames
	if frames == nil {
		frames = capture.NewBlueprint(c.scene, c.shape, 1280, 720)
	}
	c.capture = capture.New(frames)

	c.tour.OnPose(func(p scene.PlayerPose) { c.pose = &p })
	c.tour.OnOverlay(func(v bool) { c.overlay = v })
	c.probe.OnHover(func(h *probe.Hover) { c.hover = h })
	c.modes.OnTransition(c.onTransition)
	c.bus.Subscribe(c.handleKey)
	return c
}

// The catalog can be swapped by a reload, so these read it at call time.
func (c *Controller) defaults(typ string) scene.Defaults { return c.catalog.Defaults(typ) }

func (c *Controller) footing(typ string) float32 { return c.catalog.Def(typ).Footing }

func (c *Controller) shape(it scene.Item) []geom.AABB { return c.catalog.Def(it.Type).Boxes(it) }

func (c *Controller) Scene() *scene.Scene { return c.scene }

func (c *Controller) Modes() *mode.Machine { return c.modes }

func (c *Controller) Editor() *editor.Editor { return c.editor }

func (c *Controller) Tour() *tour.Controller { return c.tour }

func (c *Controller) World() *collision.World { return c.world }

func (c *Controller) Bus() *input.Bus { return c.bus }

func (c *Controller) Notifications() *notify.Queue { return c.notes }

func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

func (c *Controller) Log() *logger.Logger { return c.log }

// Hover is the item under the tour crosshair, nil when none.
func (c *Controller) Hover() *probe.Hover { return c.hover }

// Pose is the last reported player pose, nil outside a tour.
func (c *Controller) Pose() *scene.PlayerPose { return c.pose }

// OverlayVisible reports whether the tour instructions should be shown.
func (c *Controller) OverlayVisible() bool { return c.overlay }

// SetFrameSource points screenshots at the presented frame.
func (c *Controller) SetFrameSource(src capture.FrameSource) { c.capture.SetSource(src) }

// Close stops background work.
func (c *Controller) Close() {
	if c.watchStop != nil {
		c.watchStop()
	}
	c.persist.Close()
	c.tour.Stop()
}

// SetMode switches mode. Entering the current mode is a no-op.
func (c *Controller) SetMode(m mode.Mode) bool { return c.modes.Enter(m) }

func (c *Controller) onTransition(from, to mode.Mode) {
	c.editor.CancelDrag()
	if from == mode.Tour {
		c.tour.Stop()
		c.probe.Deactivate()
		c.pose = nil
		c.minimapImg = nil
	}
	if to == mode.Tour {
		c.world.Sync(c.scene)
		c.tour.Start(c.bus, c.scene.Room())
		p := c.tour.Pose()
		c.pose = &p
		c.tour.Update(0, c.modes.CameraFor(mode.DriverFirstPerson))
	}
	c.log.Logf("mode %s -> %s", from, to)
}

// Tick runs one frame: pending completions, side-table sync, camera, locomotion, gaze probe
// and minimap, in that order.
func (c *Controller) Tick(dt float32) {
	c.persist.Drain()
	c.world.Sync(c.scene)
	c.modes.Update(dt)

	if c.modes.Mode() == mode.Tour {
		c.tour.Update(dt, c.modes.CameraFor(mode.DriverFirstPerson))
		c.probe.Tick(c.ViewRay(), c.world, c.scene.Item)
		c.refreshMinimap()
	}
	c.notes.Update(dt)
}

// ViewRay is the centre-of-view ray of the current camera.
func (c *Controller) ViewRay() geom.Ray {
	cam := c.modes.Camera()
	dir := cam.Target.Sub(cam.Position)
	if dir.Len() == 0 {
		dir = geom.Forward(cam.Yaw)
	}
	return geom.Ray{Origin: cam.Position, Dir: dir.Normalize()}
}

// RenderItems is the scene as it should be drawn: the item being dragged shows its live transform.
func (c *Controller) RenderItems() []scene.Item {
	items := c.scene.Items()
	live, ok := c.editor.Preview()
	if !ok {
		return items
	}
	for i := range items {
		if items[i].ID == live.ID {
			items[i] = live
		}
	}
	return items
}

// ============================================================
// Minimap
// ============================================================

// MinimapVisible reports whether the minimap should be drawn this frame.
func (c *Controller) MinimapVisible() bool {
	return c.minimapOn && c.modes.Mode() == mode.Tour
}

// MinimapEnabled reports the minimap preference, independent of the mode.
func (c *Controller) MinimapEnabled() bool { return c.minimapOn }

// ToggleMinimap flips minimap visibility and returns the new state.
func (c *Controller) ToggleMinimap() bool {
	c.minimapOn = !c.minimapOn
	c.minimapImg = nil
	return c.minimapOn
}

// Minimap returns the current minimap image and a sequence number that changes with it.
func (c *Controller) Minimap() (*image.NRGBA, uint64) {
	return c.minimapImg, c.minimapSeq
}

func (c *Controller) refreshMinimap() {
	if !c.minimapOn {
		return
	}
	rev := c.scene.Revision()
	if c.minimapImg != nil && c.minimapRev == rev && c.pose == c.lastPose {
		return
	}
	c.minimapImg = c.minimap.Render(c.scene.Room(), c.scene.Items(), c.pose)
	c.minimapRev = rev
	c.lastPose = c.pose
	c.minimapSeq++
}
