// Package minimap draws the top-down overview shown in the corner during a tour. Rendering is a
// pure function of the room, the items and the player pose.
package minimap

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"room-designer/internal/scene"
)

// Options sizes the minimap. All values are pixels.
type Options struct {
	Size         int
	Padding      float32
	DotRadius    float32
	GlowRadius   float32
	PlayerRadius float32
	PlayerGlow   float32
	ArrowLength  float32
	HeadLength   float32
	HeadAngle    float32 // radians either side of the shaft
	Label        bool
}

// DefaultOptions is the 160 px map with a 12 px border.
func DefaultOptions() Options {
	return Options{
		Size:         160,
		Padding:      12,
		DotRadius:    4,
		GlowRadius:   6,
		PlayerRadius: 4,
		PlayerGlow:   10,
		ArrowLength:  12,
		HeadLength:   5,
		HeadAngle:    0.5,
		Label:        true,
	}
}

var (
	background = color.NRGBA{20, 20, 20, 217}
	floorFill  = color.NRGBA{92, 58, 33, 77}
	outline    = color.NRGBA{255, 255, 255, 77}
	playerBlue = color.NRGBA{0x3b, 0x82, 0xf6, 0xff}
	playerHalo = color.NRGBA{0x3b, 0x82, 0xf6, 0x4d}
	white      = color.NRGBA{255, 255, 255, 255}
	labelGray  = color.NRGBA{255, 255, 255, 153}
	fallback   = color.NRGBA{0x88, 0x88, 0x88, 0xff}
)

// Palette is the fixed dot colour per furniture type.
var Palette = map[string]color.NRGBA{
	"Table":     {0xf5, 0x9e, 0x0b, 0xff},
	"Chair":     {0x8b, 0x5c, 0xf6, 0xff},
	"Bed":       {0xec, 0x48, 0x99, 0xff},
	"Cabinet":   {0x63, 0x66, 0xf1, 0xff},
	"Lamp":      {0xfb, 0xbf, 0x24, 0xff},
	"Sofa":      {0x10, 0xb9, 0x81, 0xff},
	"Bookshelf": {0xf9, 0x73, 0x16, 0xff},
	"Rug":       {0x14, 0xb8, 0xa6, 0xff},
	"Plant":     {0x22, 0xc5, 0x5e, 0xff},
	"TV":        {0x6b, 0x72, 0x80, 0xff},
}

// ColorFor returns the palette colour of typ, gray for unknown types.
func ColorFor(typ string) color.NRGBA {
	if c, ok := Palette[typ]; ok {
		return c
	}
	return fallback
}

// Projector maps room coordinates to minimap pixels.
type Projector struct {
	opts Options
	ras  *vector.Rasterizer
}

// New returns a projector for opts.
func New(opts Options) *Projector {
	return &Projector{opts: opts, ras: vector.NewRasterizer(opts.Size, opts.Size)}
}

func (p *Projector) drawSize() float32 {
	return float32(p.opts.Size) - 2*p.opts.Padding
}

// Project converts a floor position to pixel coordinates. +Z points down the image.
func (p *Projector) Project(room scene.RoomConfig, x, z float32) (float32, float32) {
	hw, hd := room.HalfExtents()
	ds := p.drawSize()
	nx := (x + hw) / room.Width
	nz := (z + hd) / room.Depth
	return p.opts.Padding + nx*ds, p.opts.Padding + nz*ds
}

// Render draws the map. pose may be nil outside a tour.
func (p *Projector) Render(room scene.RoomConfig, items []scene.Item, pose *scene.PlayerPose) *image.NRGBA {
	size := p.opts.Size
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	s := float32(size)

	p.roundRect(img, 0, 0, s, s, 8, background)
	if room.Valid() {
		pad, ds := p.opts.Padding, p.drawSize()
		p.rect(img, pad, pad, pad+ds, pad+ds, floorFill)
		p.strokeRect(img, pad, pad, pad+ds, pad+ds, 1.5, outline)

		for _, it := range items {
			x, y := p.Project(room, it.Position.X(), it.Position.Z())
			c := ColorFor(it.Type)
			glow := c
			glow.A = 0x33
			p.circle(img, x, y, p.opts.GlowRadius, glow)
			p.circle(img, x, y, p.opts.DotRadius, c)
		}

		if pose != nil {
			p.player(img, room, *pose)
		}
	}
	if p.opts.Label {
		p.label(img, room)
	}
	return img
}

func (p *Projector) player(img *image.NRGBA, room scene.RoomConfig, pose scene.PlayerPose) {
	x, y := p.Project(room, pose.X, pose.Z)
	p.circle(img, x, y, p.opts.PlayerGlow, playerHalo)

	angle := pose.Yaw + math32.Pi
	dx, dy := heading(pose.Yaw)
	ax := x + dx*p.opts.ArrowLength
	ay := y + dy*p.opts.ArrowLength
	p.line(img, x, y, ax, ay, 2, playerBlue)
	hl, ha := p.opts.HeadLength, p.opts.HeadAngle
	p.line(img, ax, ay, ax-hl*math32.Sin(angle-ha), ay-hl*math32.Cos(angle-ha), 2, playerBlue)
	p.line(img, ax, ay, ax-hl*math32.Sin(angle+ha), ay-hl*math32.Cos(angle+ha), 2, playerBlue)

	p.circle(img, x, y, p.opts.PlayerRadius+1.5, white)
	p.circle(img, x, y, p.opts.PlayerRadius, playerBlue)
}

// heading is the unit arrow direction in image space for a yaw. Yaw 0 looks along -Z, which is up.
func heading(yaw float32) (float32, float32) {
	a := yaw + math32.Pi
	return math32.Sin(a), math32.Cos(a)
}

// Label returns the dimension caption, e.g. "15m x 12.5m".
func Label(room scene.RoomConfig) string {
	f := func(v float32) string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }
	return f(room.Width) + "m x " + f(room.Depth) + "m"
}

func (p *Projector) label(img *image.NRGBA, room scene.RoomConfig) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(labelGray), Face: basicfont.Face7x13}
	text := Label(room)
	w := d.MeasureString(text).Round()
	d.Dot = fixed.P((p.opts.Size-w)/2, p.opts.Size-2)
	d.DrawString(text)
}

func (p *Projector) fill(img *image.NRGBA, c color.NRGBA) {
	p.ras.DrawOp = draw.Over
	p.ras.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
	p.ras.Reset(p.opts.Size, p.opts.Size)
}

func (p *Projector) rect(img *image.NRGBA, x0, y0, x1, y1 float32, c color.NRGBA) {
	p.ras.MoveTo(x0, y0)
	p.ras.LineTo(x1, y0)
	p.ras.LineTo(x1, y1)
	p.ras.LineTo(x0, y1)
	p.ras.ClosePath()
	p.fill(img, c)
}

func (p *Projector) strokeRect(img *image.NRGBA, x0, y0, x1, y1, w float32, c color.NRGBA) {
	p.line(img, x0, y0, x1, y0, w, c)
	p.line(img, x1, y0, x1, y1, w, c)
	p.line(img, x1, y1, x0, y1, w, c)
	p.line(img, x0, y1, x0, y0, w, c)
}

func (p *Projector) roundRect(img *image.NRGBA, x0, y0, x1, y1, r float32, c color.NRGBA) {
	const steps = 6
	corner := func(cx, cy, start float32) {
		for i := 0; i <= steps; i++ {
			a := start + float32(i)/steps*math32.Pi/2
			p.ras.LineTo(cx+r*math32.Cos(a), cy+r*math32.Sin(a))
		}
	}
	p.ras.MoveTo(x0+r, y0)
	corner(x1-r, y0+r, -math32.Pi/2)
	corner(x1-r, y1-r, 0)
	corner(x0+r, y1-r, math32.Pi/2)
	corner(x0+r, y0+r, math32.Pi)
	p.ras.ClosePath()
	p.fill(img, c)
}

func (p *Projector) circle(img *image.NRGBA, cx, cy, r float32, c color.NRGBA) {
	const segments = 24
	p.ras.MoveTo(cx+r, cy)
	for i := 1; i < segments; i++ {
		a := float32(i) / segments * 2 * math32.Pi
		p.ras.LineTo(cx+r*math32.Cos(a), cy+r*math32.Sin(a))
	}
	p.ras.ClosePath()
	p.fill(img, c)
}

func (p *Projector) line(img *image.NRGBA, x0, y0, x1, y1, w float32, c color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	l := math32.Sqrt(dx*dx + dy*dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	p.ras.MoveTo(x0+nx, y0+ny)
	p.ras.LineTo(x1+nx, y1+ny)
	p.ras.LineTo(x1-nx, y1-ny)
	p.ras.LineTo(x0-nx, y0-ny)
	p.ras.ClosePath()
	p.fill(img, c)
}
