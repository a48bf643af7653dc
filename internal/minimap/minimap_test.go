package minimap

import (
	"bytes"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"room-designer/internal/scene"
)

func TestProject(t *testing.T) {
	p := New(DefaultOptions())
	room := scene.RoomConfig{Width: 15, Depth: 10}

	tests := []struct {
		name   string
		x, z   float32
		px, py float32
	}{
		{"centre", 0, 0, 80, 80},
		{"north-west corner", -7.5, -5, 12, 12},
		{"south-east corner", 7.5, 5, 148, 148},
		{"east edge", 7.5, 0, 148, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px, py := p.Project(room, tt.x, tt.z)
			if px != tt.px || py != tt.py {
				t.Errorf("Project(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.z, px, py, tt.px, tt.py)
			}
		})
	}
}

func TestCentreIndependentOfRoomSize(t *testing.T) {
	p := New(DefaultOptions())
	for _, room := range []scene.RoomConfig{
		{Width: 15, Depth: 15},
		{Width: 4, Depth: 9},
		{Width: 30, Depth: 2.5},
	} {
		if px, py := p.Project(room, 0, 0); px != 80 || py != 80 {
			t.Errorf("%s: centre = (%v, %v), want (80, 80)", Label(room), px, py)
		}
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name   string
		yaw    float32
		dx, dy float32
	}{
		{"forward is up", 0, 0, -1},
		{"quarter left", math32.Pi / 2, -1, 0},
		{"about face", math32.Pi, 0, 1},
		{"quarter right", -math32.Pi / 2, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := heading(tt.yaw)
			if math32.Abs(dx-tt.dx) > 1e-5 || math32.Abs(dy-tt.dy) > 1e-5 {
				t.Errorf("heading(%v) = (%v, %v), want (%v, %v)", tt.yaw, dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestArrowPointsAlongYaw(t *testing.T) {
	p := New(DefaultOptions())
	room := scene.DefaultRoom()
	// (80, 70) is on the shaft when facing up, clear of the marker disc.
	up := p.Render(room, nil, &scene.PlayerPose{Yaw: 0})
	if got := up.NRGBAAt(80, 70); got != playerBlue {
		t.Errorf("facing -Z: pixel above marker = %v, want %v", got, playerBlue)
	}
	down := p.Render(room, nil, &scene.PlayerPose{Yaw: math32.Pi})
	if got := down.NRGBAAt(80, 70); got == playerBlue {
		t.Error("facing +Z: arrow drawn above the marker")
	}
}

func TestItemDotUsesPalette(t *testing.T) {
	opts := DefaultOptions()
	opts.Label = false
	p := New(opts)
	room := scene.DefaultRoom()
	items := []scene.Item{{ID: "a", Type: "Chair", Position: mgl32.Vec3{3, 0, -3}}}

	img := p.Render(room, items, nil)
	x, y := p.Project(room, 3, -3)
	got := img.NRGBAAt(int(x), int(y))
	if got != Palette["Chair"] {
		t.Errorf("dot colour = %v, want %v", got, Palette["Chair"])
	}
}

func TestUnknownTypeIsGray(t *testing.T) {
	if c := ColorFor("Piano"); c != fallback {
		t.Errorf("ColorFor(Piano) = %v, want gray", c)
	}
}

func TestNilPoseDrawsNoPlayer(t *testing.T) {
	p := New(DefaultOptions())
	room := scene.DefaultRoom()
	items := []scene.Item{{ID: "a", Type: "Bed", Position: mgl32.Vec3{-4, 0, 4}}}

	without := p.Render(room, items, nil)
	again := p.Render(room, items, nil)
	if !bytes.Equal(without.Pix, again.Pix) {
		t.Fatal("rendering is not deterministic")
	}
	with := p.Render(room, items, &scene.PlayerPose{X: 0, Z: 0})
	if bytes.Equal(without.Pix, with.Pix) {
		t.Error("player marker missing")
	}
	if got := with.NRGBAAt(80, 80); got != playerBlue {
		t.Errorf("player centre = %v, want %v", got, playerBlue)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(scene.RoomConfig{Width: 15, Depth: 12.5}); got != "15m x 12.5m" {
		t.Errorf("Label = %q", got)
	}
}
