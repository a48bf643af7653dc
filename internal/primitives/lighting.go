package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/scene"
)

// Lighting is the sun and hemisphere ambient for one lighting mode.
type Lighting struct {
	SkyAmbient    [3]float32
	GroundAmbient [3]float32
	SunColor      [3]float32
	Intensity     float32
	SunDir        [3]float32 // towards the sun
	Sky           rl.Color   // clear colour
	// Glow is how strongly emissive items (lamps) light themselves.
	Glow float32
}

// LightingFor returns the preset for m.
func LightingFor(m scene.LightingMode) Lighting {
	switch m {
	case scene.LightingGolden:
		return Lighting{
			SkyAmbient:    [3]float32{0.36, 0.3, 0.26},
			GroundAmbient: [3]float32{0.2, 0.15, 0.1},
			SunColor:      [3]float32{1, 0.78, 0.5},
			Intensity:     0.8,
			SunDir:        [3]float32{-0.8, 0.35, 0.4},
			Sky:           rl.NewColor(244, 200, 150, 255),
			Glow:          0.3,
		}
	case scene.LightingNight:
		return Lighting{
			SkyAmbient:    [3]float32{0.08, 0.1, 0.18},
			GroundAmbient: [3]float32{0.04, 0.04, 0.06},
			SunColor:      [3]float32{0.55, 0.6, 0.85},
			Intensity:     0.25,
			SunDir:        [3]float32{0.3, 1, -0.2},
			Sky:           rl.NewColor(11, 16, 32, 255),
			Glow:          0.9,
		}
	default:
		return Lighting{
			SkyAmbient:    [3]float32{0.42, 0.45, 0.5},
			GroundAmbient: [3]float32{0.25, 0.22, 0.2},
			SunColor:      [3]float32{1, 0.98, 0.95},
			Intensity:     0.75,
			SunDir:        [3]float32{0.5, 1, 0.5},
			Sky:           rl.NewColor(219, 234, 254, 255),
		}
	}
}
