// Package probe reports which piece of furniture the tour camera is looking at.
package probe

import (
	"github.com/go-gl/mathgl/mgl32"

	"room-designer/internal/cell"
	"room-designer/internal/collision"
	"room-designer/internal/geom"
	"room-designer/internal/scene"
)

const (
	// Every is the number of ticks between casts.
	Every uint64 = 3
	// MaxDistance is the gaze range in metres.
	MaxDistance float32 = 15
)

// Hover describes the item under the crosshair.
type Hover struct {
	ItemID   string
	Type     string
	Distance float32 // metres, one decimal place
	Position mgl32.Vec3
}

// Caster is the side-table the probe queries.
type Caster interface {
	Raycast(r geom.Ray, maxDist float32) (collision.Hit, bool)
	OwnerOf(node int) (string, bool)
}

// Lookup resolves an item id to the current item.
type Lookup func(id string) (scene.Item, bool)

// Probe emits a Hover when the gazed item changes and nil when the gaze leaves furniture.
type Probe struct {
	every   uint64
	maxDist float32
	frame   uint64
	last    string
	sink    *cell.Cell[func(*Hover)]
}

// New returns a probe with the standard cadence and range.
func New() *Probe {
	return &Probe{every: Every, maxDist: MaxDistance, sink: &cell.Cell[func(*Hover)]{}}
}

// OnHover sets the sink. The latest sink is used at emission time.
func (p *Probe) OnHover(fn func(*Hover)) { p.sink.Set(fn) }

// Hovered returns the id currently reported as hovered.
func (p *Probe) Hovered() string { return p.last }

func (p *Probe) emit(h *Hover) {
	if fn, ok := p.sink.Get(); ok && fn != nil {
		fn(h)
	}
}

// Tick advances one frame and casts view every third call.
func (p *Probe) Tick(view geom.Ray, world Caster, lookup Lookup) {
	p.frame++
	if p.frame%p.every != 0 {
		return
	}
	id, hit := p.cast(view, world)
	if id == "" {
		p.clear()
		return
	}
	if id == p.last {
		return
	}
	it, ok := lookup(id)
	if !ok {
		p.clear()
		return
	}
	p.last = id
	p.emit(&Hover{
		ItemID:   id,
		Type:     it.Type,
		Distance: geom.Round1(hit.Distance),
		Position: it.Position,
	})
}

func (p *Probe) cast(view geom.Ray, world Caster) (string, collision.Hit) {
	hit, ok := world.Raycast(view, p.maxDist)
	if !ok {
		return "", hit
	}
	id, ok := world.OwnerOf(hit.Node)
	if !ok {
		return "", hit
	}
	return id, hit
}

func (p *Probe) clear() {
	if p.last == "" {
		return
	}
	p.last = ""
	p.emit(nil)
}

// Deactivate clears the hover immediately, emitting nil if something was hovered.
func (p *Probe) Deactivate() {
	p.clear()
	p.frame = 0
}
