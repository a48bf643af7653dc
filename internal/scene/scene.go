// Package scene is the source of truth for the room and the furniture placed in it.
// All mutations are synchronous and happen on the frame thread; no bounds are enforced here.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Scene holds the ordered furniture list, the selected id and the room.
type Scene struct {
	items    []Item
	selected string
	room     RoomConfig
	defaults DefaultsFunc
	newID    func() string
	revision uint64
}

// Option configures a Scene.
type Option func(*Scene)

// WithDefaults sets the per-type defaults used by AddItem.
func WithDefaults(fn DefaultsFunc) Option {
	return func(s *Scene) { s.defaults = fn }
}

// WithIDs replaces the uuid generator, mostly for tests.
func WithIDs(fn func() string) Option {
	return func(s *Scene) { s.newID = fn }
}

// New returns an empty scene for the given room.
func New(room RoomConfig, opts ...Option) *Scene {
	s := &Scene{
		room:     room,
		defaults: FallbackDefaults,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetDefaults swaps the defaults source, e.g. after a catalog reload.
func (s *Scene) SetDefaults(fn DefaultsFunc) {
	if fn == nil {
		fn = FallbackDefaults
	}
	s.defaults = fn
}

// AddItem appends a new item of typ at the origin and returns its id.
func (s *Scene) AddItem(typ string) string {
	d := s.defaults(typ)
	it := Item{
		ID:       s.newID(),
		Type:     typ,
		Position: mgl32.Vec3{0, d.Footing, 0},
		Scale:    mgl32.Vec3{1, 1, 1},
		Color:    d.Color,
	}
	s.items = append(s.items, it)
	s.revision++
	return it.ID
}

func (s *Scene) index(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateItem merges p into the item with the given id. An unknown id is a no-op and returns false.
func (s *Scene) UpdateItem(id string, p Patch) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	p.apply(&s.items[i])
	s.revision++
	return true
}

// DeleteItem removes the item and clears the selection if it pointed at it.
func (s *Scene) DeleteItem(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.revision++
	return true
}

// SetSelected stores a weak reference; "" clears it.
func (s *Scene) SetSelected(id string) { s.selected = id }

// Selected resolves the selection. A dangling id reads as nothing selected.
func (s *Scene) Selected() (Item, bool) {
	i := s.index(s.selected)
	if i < 0 {
		return Item{}, false
	}
	return s.items[i], true
}

// SelectedID returns the selected id if it still resolves, else "".
func (s *Scene) SelectedID() string {
	if s.index(s.selected) < 0 {
		return ""
	}
	return s.selected
}

// Item returns a copy of the item with the given id.
func (s *Scene) Item(id string) (Item, bool) {
	i := s.index(id)
	if i < 0 {
		return Item{}, false
	}
	return s.items[i], true
}

// Items returns a copy of the items in insertion order.
func (s *Scene) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Scene) Len() int { return len(s.items) }

func (s *Scene) Room() RoomConfig { return s.room }

// Revision increases on every mutation that changes geometry.
func (s *Scene) Revision() uint64 { return s.revision }

// SetRoom replaces the room. Items are not moved.
func (s *Scene) SetRoom(r RoomConfig) {
	s.room = r
	s.revision++
}

// Load replaces items and room wholesale and clears the selection. Positions are not validated.
func (s *Scene) Load(items []Item, room RoomConfig) {
	s.items = make([]Item, len(items))
	copy(s.items, items)
	s.room = room
	s.selected = ""
	s.revision++
}

// Snapshot is a detached copy of a scene suitable for persistence.
type Snapshot struct {
	Items []Item     `json:"items"`
	Room  RoomConfig `json:"room"`
}

// Snapshot deep-copies the current items and room.
func (s *Scene) Snapshot() (Snapshot, error) {
	src := Snapshot{Items: s.items, Room: s.room}
	var dst Snapshot
	if err := copier.CopyWithOption(&dst, &src, copier.Option{DeepCopy: true}); err != nil {
		return Snapshot{}, fmt.Errorf("scene: snapshot: %w", err)
	}
	if dst.Items == nil {
		dst.Items = []Item{}
	}
	return dst, nil
}
