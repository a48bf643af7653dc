// Package mode switches the designer between the orbit editor, the top-down blueprint and the
// first-person tour, and decides who may move the camera.
package mode

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode is the active interaction mode.
type Mode int

const (
	Edit3D Mode = iota
	Blueprint2D
	Tour
)

var modeNames = [...]string{"edit3d", "blueprint", "tour"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Parse accepts the names produced by String plus a few aliases.
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edit3d", "3d", "edit":
		return Edit3D, nil
	case "blueprint", "2d", "blueprint2d":
		return Blueprint2D, nil
	case "tour", "walk":
		return Tour, nil
	}
	return Edit3D, fmt.Errorf("mode: unknown mode %q", s)
}

// Driver identifies who writes the camera.
type Driver int

const (
	DriverOrbit Driver = iota + 1
	DriverFirstPerson
)

// Gizmo is a transform handle kind.
type Gizmo int

const (
	GizmoTranslate Gizmo = iota
	GizmoRotate
	GizmoScale
)

var gizmoNames = [...]string{"translate", "rotate", "scale"}

func (g Gizmo) String() string {
	if g < 0 || int(g) >= len(gizmoNames) {
		return "unknown"
	}
	return gizmoNames[g]
}

// CameraConfig is applied on entry to a mode.
type CameraConfig struct {
	Driver         Driver
	MinPolar       float32
	MaxPolar       float32
	RotateEnabled  bool
	PanEnabled     bool
	GizmoEnabled   bool
	TranslateOnly  bool
	SidebarVisible bool
	ShowOverlay    bool
	FOV            float32
}

// Edit and blueprint field of view.
const orbitFOV float32 = 50

// ConfigFor returns the fixed configuration of m.
func ConfigFor(m Mode) CameraConfig {
	switch m {
	case Blueprint2D:
		return CameraConfig{
			Driver:         DriverOrbit,
			PanEnabled:     true,
			GizmoEnabled:   true,
			TranslateOnly:  true,
			SidebarVisible: true,
			FOV:            orbitFOV,
		}
	case Tour:
		return CameraConfig{
			Driver:      DriverFirstPerson,
			ShowOverlay: true,
		}
	default:
		return CameraConfig{
			Driver:         DriverOrbit,
			MaxPolar:       math32.Pi,
			RotateEnabled:  true,
			PanEnabled:     true,
			GizmoEnabled:   true,
			SidebarVisible: true,
			FOV:            orbitFOV,
		}
	}
}

// Presets for the orbit driven modes.
var (
	EditPreset      = PresetFromPosition(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{})
	BlueprintPreset = Preset{Distance: 10}
)

// CameraState is the single camera record. Only the active driver writes it.
type CameraState struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Yaw      float32
	Pitch    float32
	FOV      float32
}

// Machine is the mode state machine and camera arbiter.
type Machine struct {
	mode       Mode
	beforeTour Mode
	cfg        CameraConfig
	cam        CameraState
	orbit      *OrbitRig
	gizmoHeld  bool
	listeners  []func(from, to Mode)
}

// NewMachine starts in Edit3D.
func NewMachine() *Machine {
	m := &Machine{
		mode:  Edit3D,
		cfg:   ConfigFor(Edit3D),
		orbit: NewOrbitRig(EditPreset),
	}
	m.syncOrbit()
	return m
}

func (m *Machine) Mode() Mode { return m.mode }

func (m *Machine) Config() CameraConfig { return m.cfg }

// Camera returns a read-only copy of the camera record.
func (m *Machine) Camera() CameraState { return m.cam }

func (m *Machine) Orbit() *OrbitRig { return m.orbit }

func (m *Machine) GizmoHeld() bool { return m.gizmoHeld }

// OnTransition registers fn to run after every mode change, in registration order.
func (m *Machine) OnTransition(fn func(from, to Mode)) {
	m.listeners = append(m.listeners, fn)
}

// Enter switches to mode to. Entering the current mode does nothing and returns false.
func (m *Machine) Enter(to Mode) bool {
	if to == m.mode {
		return false
	}
	from := m.mode
	m.gizmoHeld = false
	if to == Tour {
		m.beforeTour = from
	}
	m.mode = to
	m.cfg = ConfigFor(to)

	switch to {
	case Edit3D:
		m.orbit.AnimateTo(EditPreset)
		m.orbit.SetPolarRange(m.cfg.MinPolar, m.cfg.MaxPolar)
	case Blueprint2D:
		bp := BlueprintPreset
		bp.Target = m.orbit.Target
		m.orbit.AnimateTo(bp)
		m.orbit.SetPolarRange(m.cfg.MinPolar, m.cfg.MaxPolar)
	}
	if m.cfg.Driver == DriverOrbit {
		m.syncOrbit()
	}
	for _, fn := range m.listeners {
		fn(from, to)
	}
	return true
}

// ExitTour returns to whichever mode was active before the tour started.
func (m *Machine) ExitTour() bool {
	if m.mode != Tour {
		return false
	}
	return m.Enter(m.beforeTour)
}

// CameraFor hands out write access to the camera. Only the active driver gets a non-nil result.
func (m *Machine) CameraFor(d Driver) *CameraState {
	if d != m.cfg.Driver {
		return nil
	}
	return &m.cam
}

// AcquireGizmo takes the transform handle. Orbit input is refused until ReleaseGizmo.
func (m *Machine) AcquireGizmo() bool {
	if !m.cfg.GizmoEnabled || m.gizmoHeld {
		return false
	}
	m.gizmoHeld = true
	return true
}

// ReleaseGizmo hands control back to the orbit driver.
func (m *Machine) ReleaseGizmo() { m.gizmoHeld = false }

// GizmoAllowed reports whether g can be used in the current mode.
func (m *Machine) GizmoAllowed(g Gizmo) bool {
	if !m.cfg.GizmoEnabled {
		return false
	}
	return g == GizmoTranslate || !m.cfg.TranslateOnly
}

func (m *Machine) orbitInput() bool {
	return m.cfg.Driver == DriverOrbit && !m.gizmoHeld
}

// OrbitBy rotates the orbit camera. It is refused while the gizmo is held or rotation is locked.
func (m *Machine) OrbitBy(dAzimuth, dPolar float32) bool {
	if !m.orbitInput() || !m.cfg.RotateEnabled {
		return false
	}
	m.orbit.Rotate(dAzimuth, dPolar)
	m.syncOrbit()
	return true
}

// PanBy slides the orbit target.
func (m *Machine) PanBy(dx, dz float32) bool {
	if !m.orbitInput() || !m.cfg.PanEnabled {
		return false
	}
	m.orbit.Pan(dx, dz)
	m.syncOrbit()
	return true
}

// ZoomBy scales the orbit distance.
func (m *Machine) ZoomBy(factor float32) bool {
	if !m.orbitInput() {
		return false
	}
	m.orbit.Zoom(factor)
	m.syncOrbit()
	return true
}

// Update advances orbit transitions. The first-person driver writes through CameraFor instead.
func (m *Machine) Update(dt float32) {
	if m.cfg.Driver != DriverOrbit {
		return
	}
	m.orbit.Update(dt)
	m.syncOrbit()
}

func (m *Machine) syncOrbit() {
	m.cam.Position = m.orbit.Position()
	m.cam.Target = m.orbit.Target
	m.cam.Up = m.orbit.Up()
	m.cam.FOV = m.cfg.FOV
	m.cam.Yaw = m.orbit.Azimuth
	m.cam.Pitch = m.orbit.Polar - math32.Pi/2
}
