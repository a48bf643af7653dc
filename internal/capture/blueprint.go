package capture

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"room-designer/internal/geom"
	"room-designer/internal/scene"
)

// Layout is what the blueprint renderer needs from a scene.
type Layout interface {
	Room() scene.RoomConfig
	Items() []scene.Item
}

// ShapeFunc returns the world boxes of an item's parts.
type ShapeFunc func(scene.Item) []geom.AABB

var (
	paper     = color.NRGBA{0x1e, 0x29, 0x3b, 0xff}
	itemGray  = color.NRGBA{0x99, 0x99, 0x99, 0xff}
	wallShade = color.NRGBA{0xcc, 0xcc, 0xcc, 0xff}
)

// Blueprint is a software top-down renderer. It backs design previews and headless capture.
type Blueprint struct {
	layout  Layout
	shape   ShapeFunc
	width   int
	height  int
	padding float32
}

// NewBlueprint renders layout into a width x height frame.
func NewBlueprint(layout Layout, shape ShapeFunc, width, height int) *Blueprint {
	return &Blueprint{layout: layout, shape: shape, width: width, height: height, padding: 16}
}

// Frame renders the current layout graded for the room lighting.
func (b *Blueprint) Frame() (image.Image, error) {
	if b.layout == nil || b.width <= 0 || b.height <= 0 {
		return nil, ErrNoFrame
	}
	room := b.layout.Room()
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)
	if !room.Valid() {
		return img, nil
	}

	ras := vector.NewRasterizer(b.width, b.height)
	fill := func(c color.NRGBA) {
		ras.DrawOp = draw.Over
		ras.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{})
		ras.Reset(b.width, b.height)
	}

	scale, ox, oy := b.fit(room)
	toPx := func(x, z float32) (float32, float32) { return ox + x*scale, oy + z*scale }
	rect := func(minX, minZ, maxX, maxZ float32, c color.NRGBA) {
		x0, y0 := toPx(minX, minZ)
		x1, y1 := toPx(maxX, maxZ)
		ras.MoveTo(x0, y0)
		ras.LineTo(x1, y0)
		ras.LineTo(x1, y1)
		ras.LineTo(x0, y1)
		ras.ClosePath()
		fill(c)
	}

	hw, hd := room.HalfExtents()
	t := scene.WallThickness
	rect(-hw-t, -hd-t, hw+t, hd+t, scene.ParseColor(room.WallColor, wallShade))
	rect(-hw, -hd, hw, hd, scene.ParseColor(room.FloorColor, color.NRGBA{0x8b, 0x5a, 0x2b, 0xff}))

	for _, it := range b.layout.Items() {
		c := scene.ParseColor(it.Color, itemGray)
		for _, box := range b.boxes(it) {
			rect(box.Min[0], box.Min[2], box.Max[0], box.Max[2], c)
		}
	}
	return Grade(img, room.Lighting), nil
}

func (b *Blueprint) boxes(it scene.Item) []geom.AABB {
	if b.shape != nil {
		return b.shape(it)
	}
	return []geom.AABB{geom.BoxAt(it.Position, it.Scale.Mul(0.25))}
}

// fit returns pixels per metre and the pixel position of the room origin.
func (b *Blueprint) fit(room scene.RoomConfig) (scale, ox, oy float32) {
	t := 2 * scene.WallThickness
	w, h := float32(b.width)-2*b.padding, float32(b.height)-2*b.padding
	scale = math32.Min(w/(room.Width+t), h/(room.Depth+t))
	return scale, float32(b.width) / 2, float32(b.height) / 2
}
