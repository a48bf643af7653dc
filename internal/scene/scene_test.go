package scene

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func TestAddItemDefaults(t *testing.T) {
	s := New(DefaultRoom(), WithIDs(seqIDs()))
	chair := s.AddItem("Chair")
	lamp := s.AddItem("Lamp")

	c, ok := s.Item(chair)
	if !ok {
		t.Fatal("chair not found")
	}
	if c.Position != (mgl32.Vec3{}) || c.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("chair transform = %v %v, want origin and unit scale", c.Position, c.Scale)
	}
	l, _ := s.Item(lamp)
	if l.Color == c.Color {
		t.Errorf("lamp colour %q should differ from default %q", l.Color, c.Color)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestAddItemUsesFooting(t *testing.T) {
	s := New(DefaultRoom(), WithDefaults(func(string) Defaults { return Defaults{Color: "#fff", Footing: 0.02} }))
	it, _ := s.Item(s.AddItem("Rug"))
	if it.Position.Y() != 0.02 {
		t.Errorf("y = %v, want 0.02", it.Position.Y())
	}
}

func TestUpdateItemUnknownIsNoop(t *testing.T) {
	s := New(DefaultRoom(), WithIDs(seqIDs()))
	id := s.AddItem("Table")
	before := s.Items()
	rev := s.Revision()

	pos := mgl32.Vec3{3, 0, 3}
	if s.UpdateItem("missing", Patch{Position: &pos}) {
		t.Fatal("UpdateItem on unknown id returned true")
	}
	if s.Revision() != rev {
		t.Errorf("revision changed on no-op update")
	}
	after := s.Items()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("scene changed: %v -> %v", before, after)
	}

	if !s.UpdateItem(id, Patch{Position: &pos}) {
		t.Fatal("UpdateItem on known id returned false")
	}
	got, _ := s.Item(id)
	if got.Position != pos || got.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("merge = %+v", got)
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	s := New(DefaultRoom(), WithIDs(seqIDs()))
	a := s.AddItem("Sofa")
	b := s.AddItem("Bed")
	s.SetSelected(a)

	if !s.DeleteItem(a) {
		t.Fatal("DeleteItem returned false")
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection should be cleared after deleting the selected item")
	}
	s.SetSelected(b)
	s.DeleteItem("nope")
	if s.SelectedID() != b {
		t.Errorf("SelectedID = %q, want %q", s.SelectedID(), b)
	}
}

func TestDanglingSelection(t *testing.T) {
	s := New(DefaultRoom())
	s.SetSelected("ghost")
	if _, ok := s.Selected(); ok {
		t.Error("dangling id should read as nothing selected")
	}
	if s.SelectedID() != "" {
		t.Errorf("SelectedID = %q, want empty", s.SelectedID())
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	s := New(DefaultRoom(), WithIDs(seqIDs()))
	s.SetSelected(s.AddItem("Chair"))

	room := RoomConfig{Width: 8, Depth: 6, Lighting: LightingNight}
	legacy := []Item{{ID: "x", Type: "Table", Position: mgl32.Vec3{20, 0, -20}, Scale: mgl32.Vec3{1, 1, 1}}}
	s.Load(legacy, room)

	if s.Len() != 1 || s.Room() != room {
		t.Fatalf("Load did not replace: len %d room %+v", s.Len(), s.Room())
	}
	it, _ := s.Item("x")
	if it.Position.X() != 20 {
		t.Errorf("out-of-bounds position should be kept, got %v", it.Position)
	}
	if s.SelectedID() != "" {
		t.Error("Load should clear selection")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := New(DefaultRoom(), WithIDs(seqIDs()))
	id := s.AddItem("Cabinet")
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	pos := mgl32.Vec3{1, 0, 1}
	s.UpdateItem(id, Patch{Position: &pos})
	if snap.Items[0].Position != (mgl32.Vec3{}) {
		t.Errorf("snapshot followed a later mutation: %v", snap.Items[0].Position)
	}
}

func TestLightingModeText(t *testing.T) {
	for _, m := range []LightingMode{LightingDay, LightingGolden, LightingNight} {
		b, _ := m.MarshalText()
		var back LightingMode
		if err := back.UnmarshalText(b); err != nil || back != m {
			t.Errorf("%v -> %q -> %v (%v)", m, b, back, err)
		}
	}
	if _, err := ParseLightingMode("dusk"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestParseColor(t *testing.T) {
	fb := color.NRGBA{1, 2, 3, 255}
	if got := ParseColor("#ff0000", fb); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("ParseColor hex = %v", got)
	}
	if got := ParseColor("orange", fb); got.R != 255 || got.G != 165 {
		t.Errorf("ParseColor named = %v", got)
	}
	if got := ParseColor("not a colour", fb); got != fb {
		t.Errorf("ParseColor invalid = %v, want fallback", got)
	}
}
