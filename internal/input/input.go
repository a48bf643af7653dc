// Package input maps device key codes to designer actions and fans events out to scoped
// listeners. Bindings are fixed.
package input

import (
	"slices"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Action is what a key means to the designer.
type Action int

const (
	ActionNone Action = iota

	// Tour movement
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
	ActionSprint

	// Meta / UI
	ActionScreenshot
	ActionToggleMinimap
	ActionRelease // Escape: release pointer lock, show the tour instructions
	ActionConsole
	ActionDelete

	// Mode switches
	ActionEditMode
	ActionBlueprintMode
	ActionTourMode
)

var bindings = map[string]Action{
	"w":           ActionForward,
	"arrow_up":    ActionForward,
	"s":           ActionBackward,
	"arrow_down":  ActionBackward,
	"a":           ActionLeft,
	"arrow_left":  ActionLeft,
	"d":           ActionRight,
	"arrow_right": ActionRight,
	"shift":       ActionSprint,
	"p":           ActionScreenshot,
	"m":           ActionToggleMinimap,
	"escape":      ActionRelease,
	"`":           ActionConsole,
	"delete":      ActionDelete,
	"1":           ActionEditMode,
	"2":           ActionBlueprintMode,
	"3":           ActionTourMode,
}

// MapToAction resolves a key code. Unknown codes map to ActionNone.
func MapToAction(code string) Action {
	if a, ok := bindings[strings.ToLower(code)]; ok {
		return a
	}
	return ActionNone
}

// ActionName returns a short human readable name.
func ActionName(a Action) string {
	switch a {
	case ActionForward:
		return "Forward"
	case ActionBackward:
		return "Backward"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionSprint:
		return "Sprint"
	case ActionScreenshot:
		return "Screenshot"
	case ActionToggleMinimap:
		return "Minimap"
	case ActionRelease:
		return "Release"
	case ActionConsole:
		return "Console"
	case ActionDelete:
		return "Delete"
	case ActionEditMode:
		return "Edit"
	case ActionBlueprintMode:
		return "Blueprint"
	case ActionTourMode:
		return "Tour"
	default:
		return "None"
	}
}

// Kind is the event type.
type Kind int

const (
	KeyDown Kind = iota
	KeyUp
	Wheel
	PointerMove
	PointerDown
	PointerUp
	Blur
)

// Event is one input occurrence. Action is filled in by Dispatch for key events.
type Event struct {
	Kind   Kind
	Code   string
	Action Action
	Delta  float32 // wheel steps, positive away from the user
	DX, DY float32 // pointer movement since the last event
	X, Y   float32 // pointer position in window pixels
}

// Subscription is a registered listener. Cancel is synchronous: once it returns the listener
// never runs again.
type Subscription struct {
	bus *Bus
	id  int
}

// Cancel removes the listener. Cancelling twice is harmless.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	delete(s.bus.subs, s.id)
	s.bus = nil
}

// Bus dispatches events to listeners in subscription order and tracks held keys.
type Bus struct {
	subs map[int]func(Event)
	next int
	held mapset.Set[string]
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event)), held: mapset.New[string]()}
}

// Subscribe registers fn for every future event.
func (b *Bus) Subscribe(fn func(Event)) *Subscription {
	id := b.next
	b.next++
	b.subs[id] = fn
	return &Subscription{bus: b, id: id}
}

// Listeners is the number of live subscriptions.
func (b *Bus) Listeners() int { return len(b.subs) }

// Held reports whether a key code is currently down.
func (b *Bus) Held(code string) bool { return b.held.Has(strings.ToLower(code)) }

// Dispatch delivers ev. Listeners cancelled by an earlier listener in the same dispatch are skipped.
func (b *Bus) Dispatch(ev Event) {
	ev.Code = strings.ToLower(ev.Code)
	switch ev.Kind {
	case KeyDown:
		b.held.Put(ev.Code)
		ev.Action = MapToAction(ev.Code)
	case KeyUp:
		b.held.Remove(ev.Code)
		ev.Action = MapToAction(ev.Code)
	case Blur:
		b.held = mapset.New[string]()
	}
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := b.subs[id]; ok {
			fn(ev)
		}
	}
}

// Focus turns per-frame window focus samples into one Blur on the focused-to-unfocused edge.
type Focus struct{ lost bool }

// Sync records a focus sample. When focus has just gone it dispatches Blur on b and reports true.
func (f *Focus) Sync(b *Bus, focused bool) bool {
	if focused {
		f.lost = false
		return false
	}
	if f.lost {
		return false
	}
	f.lost = true
	b.Dispatch(Event{Kind: Blur})
	return true
}
