package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"room-designer/internal/catalog"
	"room-designer/internal/scene"
	"room-designer/internal/store"
)

func newApp(t *testing.T) (*fiber.App, *store.Repository) {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "designer.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	repo := store.New(db)
	seed := []catalog.Entry{{ID: "sofa_01", Name: "Modern Sofa", Type: "Sofa"}}
	if err := repo.Init(context.Background(), seed); err != nil {
		t.Fatal(err)
	}
	return New(repo, Config{}), repo
}

func do(t *testing.T, app *fiber.App, method, path string, body []byte, contentType string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)
	for _, path := range []string{"/health/live", "/health/ready"} {
		if code, _ := do(t, app, http.MethodGet, path, nil, ""); code != http.StatusOK {
			t.Errorf("%s = %d", path, code)
		}
	}
}

func TestSaveAndListDesigns(t *testing.T) {
	app, _ := newApp(t)

	body := []byte(`{"userId":"u1","name":"Living room","items":[{"id":"a","type":"Sofa","position":[1,0,2],"rotation":[0,0,0],"scale":[1,1,1],"color":"green"}]}`)
	code, data := do(t, app, http.MethodPost, "/api/designs", body, "application/json")
	if code != http.StatusCreated {
		t.Fatalf("save = %d %s", code, data)
	}

	code, data = do(t, app, http.MethodGet, "/api/designs/u1", nil, "")
	if code != http.StatusOK {
		t.Fatalf("list = %d", code)
	}
	var list []store.Design
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "Living room" || list[0].Items[0].Position[2] != 2 {
		t.Errorf("designs = %+v", list)
	}
	if list[0].Room != scene.DefaultRoom() {
		t.Errorf("room = %+v, want default", list[0].Room)
	}

	code, data = do(t, app, http.MethodGet, "/api/designs/u1/latest", nil, "")
	if code != http.StatusOK || !bytes.Contains(data, []byte(`"Living room"`)) {
		t.Errorf("latest = %d %s", code, data)
	}
}

func TestSaveDesignRejects(t *testing.T) {
	app, _ := newApp(t)
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"bad json", "{"},
		{"no user", `{"name":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _ := do(t, app, http.MethodPost, "/api/designs", []byte(tt.body), "application/json"); code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400", code)
			}
		})
	}
}

func TestLatestMissing(t *testing.T) {
	app, _ := newApp(t)
	if code, _ := do(t, app, http.MethodGet, "/api/designs/ghost/latest", nil, ""); code != http.StatusNotFound {
		t.Errorf("latest = %d, want 404", code)
	}
	if code, _ := do(t, app, http.MethodGet, "/api/designs/ghost/latest/preview.png", nil, ""); code != http.StatusNotFound {
		t.Errorf("preview = %d, want 404", code)
	}
}

func TestLatestPreview(t *testing.T) {
	app, repo := newApp(t)
	img := pngBytes(t)
	if _, err := repo.SaveDesign(context.Background(), store.Design{UserID: "u1", Preview: img}); err != nil {
		t.Fatal(err)
	}
	code, data := do(t, app, http.MethodGet, "/api/designs/u1/latest/preview.png", nil, "")
	if code != http.StatusOK || !bytes.Equal(data, img) {
		t.Errorf("preview = %d, %d bytes", code, len(data))
	}
}

func TestFurniture(t *testing.T) {
	app, _ := newApp(t)

	code, _ := do(t, app, http.MethodPost, "/api/furniture", []byte(`{"id":"tv_01","name":"Wall TV","type":"TV"}`), "application/json")
	if code != http.StatusCreated {
		t.Fatalf("add = %d", code)
	}
	code, _ = do(t, app, http.MethodPost, "/api/furniture", []byte(`{"id":"tv_01","name":"Wall TV","type":"TV"}`), "application/json")
	if code != http.StatusConflict {
		t.Errorf("duplicate = %d, want 409", code)
	}
	code, _ = do(t, app, http.MethodPost, "/api/furniture", []byte(`{"id":"x"}`), "application/json")
	if code != http.StatusBadRequest {
		t.Errorf("incomplete = %d, want 400", code)
	}

	_, data := do(t, app, http.MethodGet, "/api/furniture", nil, "")
	var list []catalog.Entry
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "sofa_01" || list[1].Type != "TV" {
		t.Errorf("furniture = %+v", list)
	}
}

func TestScreenshots(t *testing.T) {
	app, _ := newApp(t)
	img := pngBytes(t)

	if code, _ := do(t, app, http.MethodPost, "/api/screenshots/u1", []byte("not a png"), "image/png"); code != http.StatusUnsupportedMediaType {
		t.Errorf("non-png upload = %d, want 415", code)
	}
	code, data := do(t, app, http.MethodPost, "/api/screenshots/u1", img, "image/png")
	if code != http.StatusCreated {
		t.Fatalf("upload = %d %s", code, data)
	}
	var shot store.Screenshot
	if err := json.Unmarshal(data, &shot); err != nil {
		t.Fatal(err)
	}

	_, data = do(t, app, http.MethodGet, "/api/screenshots/u1", nil, "")
	var list []store.Screenshot
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != shot.ID || list[0].Size != len(img) {
		t.Errorf("gallery = %+v", list)
	}

	code, data = do(t, app, http.MethodGet, "/api/screenshots/u1/"+shot.ID, nil, "")
	if code != http.StatusOK || !bytes.Equal(data, img) {
		t.Errorf("download = %d", code)
	}
	if code, _ := do(t, app, http.MethodDelete, "/api/screenshots/u1/"+shot.ID, nil, ""); code != http.StatusNoContent {
		t.Errorf("delete = %d", code)
	}
	if code, _ := do(t, app, http.MethodGet, "/api/screenshots/u1/"+shot.ID, nil, ""); code != http.StatusNotFound {
		t.Errorf("after delete = %d, want 404", code)
	}
}
