package scene

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// LightingMode selects the scene light rig and the matching colour grade applied to captures.
type LightingMode int

const (
	LightingDay LightingMode = iota
	LightingGolden
	LightingNight
)

var lightingNames = [...]string{"day", "golden", "night"}

func (m LightingMode) String() string {
	if m < 0 || int(m) >= len(lightingNames) {
		return "unknown"
	}
	return lightingNames[m]
}

// ParseLightingMode accepts the lower-case names produced by String.
func ParseLightingMode(s string) (LightingMode, error) {
	for i, n := range lightingNames {
		if strings.EqualFold(s, n) {
			return LightingMode(i), nil
		}
	}
	return LightingDay, fmt.Errorf("scene: unknown lighting mode %q", s)
}

func (m LightingMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *LightingMode) UnmarshalText(b []byte) error {
	v, err := ParseLightingMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// RoomConfig describes the rectangular room centred on the origin.
type RoomConfig struct {
	Width      float32      `json:"width" yaml:"width"`
	Depth      float32      `json:"depth" yaml:"depth"`
	WallColor  string       `json:"wallColor" yaml:"wall_color"`
	FloorColor string       `json:"floorColor" yaml:"floor_color"`
	Lighting   LightingMode `json:"lighting" yaml:"lighting"`
}

// WallHeight is the fixed height of the room walls.
const WallHeight float32 = 5

// WallThickness is the fixed thickness of the room walls.
const WallThickness float32 = 0.2

// DefaultRoom returns a 15 x 15 room in daylight.
func DefaultRoom() RoomConfig {
	return RoomConfig{
		Width:      15,
		Depth:      15,
		WallColor:  "#e8e4dc",
		FloorColor: "#8b5a2b",
		Lighting:   LightingDay,
	}
}

// HalfExtents returns Width/2 and Depth/2.
func (r RoomConfig) HalfExtents() (float32, float32) {
	return r.Width / 2, r.Depth / 2
}

// Valid reports whether both dimensions are positive.
func (r RoomConfig) Valid() bool { return r.Width > 0 && r.Depth > 0 }

// ParseColor converts a CSS colour string to RGBA. Unparseable input yields fallback.
func ParseColor(s string, fallback color.NRGBA) color.NRGBA {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return fallback
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
