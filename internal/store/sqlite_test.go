package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"room-designer/internal/catalog"
	"room-designer/internal/scene"
)

var seed = []catalog.Entry{
	{ID: "sofa_01", Name: "Modern Sofa", Type: "Sofa", ModelRef: "/models/sofa.glb"},
	{ID: "bed_01", Name: "Queen Bed", Type: "Bed"},
}

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "designer.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	r := New(db)
	// strictly increasing clock so ordering is deterministic
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	if err := r.Init(context.Background(), seed); err != nil {
		t.Fatalf("init: %v", err)
	}
	return r
}

func TestSeedOnlyOnce(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	if err := r.Init(ctx, seed); err != nil {
		t.Fatal(err)
	}
	list, err := r.ListFurniture(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "sofa_01" || list[0].ModelRef != "/models/sofa.glb" {
		t.Errorf("furniture = %+v", list)
	}
}

func TestAddFurniture(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry catalog.Entry
		want  error
	}{
		{"ok", catalog.Entry{ID: "lamp_01", Name: "Floor Lamp", Type: "Lamp"}, nil},
		{"duplicate", catalog.Entry{ID: "sofa_01", Name: "Again", Type: "Sofa"}, ErrDuplicate},
		{"missing type", catalog.Entry{ID: "x", Name: "X"}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.AddFurniture(ctx, tt.entry)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	list, _ := r.ListFurniture(ctx)
	if len(list) != 3 || list[2].ID != "lamp_01" {
		t.Errorf("furniture = %+v", list)
	}
}

func TestDesignsRoundTrip(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	items := []scene.Item{{
		ID: "a", Type: "Chair", Color: "#ff0000",
		Position: mgl32.Vec3{1, 0, -2}, Rotation: mgl32.Vec3{0, 0.5, 0}, Scale: mgl32.Vec3{1, 1, 1},
	}}
	room := scene.RoomConfig{Width: 10, Depth: 8, WallColor: "#fff", FloorColor: "#000", Lighting: scene.LightingNight}

	if _, err := r.SaveDesign(ctx, Design{UserID: "u1", Name: "first", Room: scene.DefaultRoom()}); err != nil {
		t.Fatal(err)
	}
	saved, err := r.SaveDesign(ctx, Design{UserID: "u1", Name: "second", Room: room, Items: items, Preview: []byte{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" || !saved.HasPreview {
		t.Errorf("saved = %+v", saved)
	}

	list, err := r.ListDesigns(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "first" || list[1].Name != "second" {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Items == nil || len(list[0].Items) != 0 {
		t.Errorf("empty design items = %v, want empty slice", list[0].Items)
	}

	latest, err := r.LatestDesign(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Name != "second" || latest.Room != room || len(latest.Items) != 1 || latest.Items[0] != items[0] {
		t.Errorf("latest = %+v", latest)
	}
	if !bytes.Equal(latest.Preview, []byte{1, 2, 3}) {
		t.Errorf("preview = %v", latest.Preview)
	}
}

func TestSaveDesignDefaults(t *testing.T) {
	r := newRepo(t)
	d, err := r.SaveDesign(context.Background(), Design{UserID: "u"})
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != DefaultDesignName || d.Room != scene.DefaultRoom() {
		t.Errorf("defaults not applied: %+v", d)
	}
	if _, err := r.SaveDesign(context.Background(), Design{Name: "x"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("missing user err = %v, want ErrInvalid", err)
	}
}

func TestLatestNotFound(t *testing.T) {
	r := newRepo(t)
	if _, err := r.LatestDesign(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	_, ok, err := r.LoadLatestSnapshot(context.Background(), "nobody")
	if ok || err != nil {
		t.Errorf("LoadLatestSnapshot = %v, %v; want false, nil", ok, err)
	}
}

func TestProviderSnapshot(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	snap := scene.Snapshot{Room: scene.DefaultRoom(), Items: []scene.Item{{ID: "b", Type: "Bed", Scale: mgl32.Vec3{1, 1, 1}}}}
	ack, err := r.SaveSnapshot(ctx, "u2", "", snap, nil)
	if err != nil || ack.ID == "" {
		t.Fatalf("save = %+v, %v", ack, err)
	}
	got, ok, err := r.LoadLatestSnapshot(ctx, "u2")
	if err != nil || !ok {
		t.Fatalf("load = %v, %v", ok, err)
	}
	if len(got.Items) != 1 || got.Items[0].ID != "b" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestScreenshots(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	first, err := r.AddScreenshot(ctx, "u1", []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.AddScreenshot(ctx, "u1", []byte("three"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddScreenshot(ctx, "u1", nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty data err = %v", err)
	}

	list, err := r.ListScreenshots(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[0].Size != 5 {
		t.Fatalf("list = %+v, want newest first", list)
	}

	data, err := r.ScreenshotData(ctx, "u1", first.ID)
	if err != nil || string(data) != "one" {
		t.Errorf("data = %q, %v", data, err)
	}
	if _, err := r.ScreenshotData(ctx, "u2", first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's screenshot err = %v", err)
	}

	if err := r.DeleteScreenshot(ctx, "u1", first.ID); err != nil {
		t.Fatal(err)
	}
	if err := r.DeleteScreenshot(ctx, "u1", first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}
