// Package store keeps designs, the furniture catalog and screenshots in sqlite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"room-designer/internal/catalog"
	"room-designer/internal/persist"
	"room-designer/internal/scene"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalid is returned for records missing required fields.
	ErrInvalid = errors.New("store: invalid record")
	// ErrDuplicate is returned when a furniture id already exists.
	ErrDuplicate = errors.New("store: duplicate id")
)

// DefaultDesignName is used when a save request has no name.
const DefaultDesignName = "Untitled design"

// Design is one saved room layout.
type Design struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	Name       string           `json:"name"`
	Room       scene.RoomConfig `json:"room"`
	Items      []scene.Item     `json:"items"`
	HasPreview bool             `json:"hasPreview"`
	Preview    []byte           `json:"-"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Screenshot is a stored capture. Data is only filled by ScreenshotData.
type Screenshot struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository implements persist.Provider over database/sql.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ persist.Provider = (*Repository)(nil)

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// OpenSQLite opens the database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Init applies the embedded migrations and seeds the furniture table when it is empty.
func (r *Repository) Init(ctx context.Context, seed []catalog.Entry) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return r.seedFurniture(ctx, seed)
}

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Name() < names[j].Name() })
	for _, n := range names {
		data, err := migrationsFS.ReadFile("migrations/" + n.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", n.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", n.Name(), err)
		}
	}
	return nil
}

func (r *Repository) seedFurniture(ctx context.Context, seed []catalog.Entry) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM furniture`).Scan(&n); err != nil {
		return fmt.Errorf("count furniture: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, e := range seed {
		if err := r.AddFurniture(ctx, e); err != nil {
			return fmt.Errorf("seed %s: %w", e.ID, err)
		}
	}
	return nil
}

// ============================================================
// Designs
// ============================================================

// SaveDesign stores d with a fresh id and creation time.
func (r *Repository) SaveDesign(ctx context.Context, d Design) (Design, error) {
	if strings.TrimSpace(d.UserID) == "" {
		return Design{}, fmt.Errorf("%w: userId required", ErrInvalid)
	}
	if strings.TrimSpace(d.Name) == "" {
		d.Name = DefaultDesignName
	}
	if !d.Room.Valid() {
		d.Room = scene.DefaultRoom()
	}
	if d.Items == nil {
		d.Items = []scene.Item{}
	}
	room, err := json.Marshal(d.Room)
	if err != nil {
		return Design{}, fmt.Errorf("encode room: %w", err)
	}
	items, err := json.Marshal(d.Items)
	if err != nil {
		return Design{}, fmt.Errorf("encode items: %w", err)
	}

	d.ID = uuid.NewString()
	d.CreatedAt = r.now().UTC()
	d.HasPreview = len(d.Preview) > 0
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO designs (id, user_id, name, room, items, preview, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, d.ID, d.UserID, d.Name, string(room), string(items), nullBlob(d.Preview), d.CreatedAt.UnixNano())
	if err != nil {
		return Design{}, fmt.Errorf("insert design: %w", err)
	}
	return d, nil
}

// ListDesigns returns every design of userID, oldest first. Previews are not loaded.
func (r *Repository) ListDesigns(ctx context.Context, userID string) ([]Design, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, name, room, items, preview IS NOT NULL, created_at
        FROM designs
        WHERE user_id = ?
        ORDER BY created_at, rowid
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query designs: %w", err)
	}
	defer rows.Close()

	out := []Design{}
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LatestDesign returns the most recent design of userID including its preview.
func (r *Repository) LatestDesign(ctx context.Context, userID string) (Design, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, name, room, items, preview IS NOT NULL, created_at, preview
        FROM designs
        WHERE user_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT 1
    `, userID)

	var (
		d       Design
		room    string
		items   string
		created int64
	)
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &room, &items, &d.HasPreview, &created, &d.Preview); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Design{}, ErrNotFound
		}
		return Design{}, fmt.Errorf("scan design: %w", err)
	}
	if err := decodeDesign(&d, room, items, created); err != nil {
		return Design{}, err
	}
	return d, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDesign(s scanner) (Design, error) {
	var (
		d       Design
		room    string
		items   string
		created int64
	)
	if err := s.Scan(&d.ID, &d.UserID, &d.Name, &room, &items, &d.HasPreview, &created); err != nil {
		return Design{}, fmt.Errorf("scan design: %w", err)
	}
	if err := decodeDesign(&d, room, items, created); err != nil {
		return Design{}, err
	}
	return d, nil
}

func decodeDesign(d *Design, room, items string, created int64) error {
	if err := json.Unmarshal([]byte(room), &d.Room); err != nil {
		return fmt.Errorf("decode room of %s: %w", d.ID, err)
	}
	if err := json.Unmarshal([]byte(items), &d.Items); err != nil {
		return fmt.Errorf("decode items of %s: %w", d.ID, err)
	}
	d.CreatedAt = time.Unix(0, created).UTC()
	return nil
}

func nullBlob(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

// ============================================================
// Furniture
// ============================================================

// ListFurniture returns the catalog in insertion order.
func (r *Repository) ListFurniture(ctx context.Context) ([]catalog.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, type, model_url, image
        FROM furniture
        ORDER BY created_at, rowid
    `)
	if err != nil {
		return nil, fmt.Errorf("query furniture: %w", err)
	}
	defer rows.Close()

	out := []catalog.Entry{}
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.ModelRef, &e.Preview); err != nil {
			return nil, fmt.Errorf("scan furniture: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddFurniture inserts a catalog entry. id, name and type are required.
func (r *Repository) AddFurniture(ctx context.Context, e catalog.Entry) error {
	if e.ID == "" || e.Name == "" || e.Type == "" {
		return fmt.Errorf("%w: id, name and type required", ErrInvalid)
	}
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM furniture WHERE id = ?`, e.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicate, e.ID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check furniture: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO furniture (id, name, type, model_url, image, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, e.ID, e.Name, e.Type, e.ModelRef, e.Preview, r.now().UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("insert furniture: %w", err)
	}
	return nil
}

// ============================================================
// Screenshots
// ============================================================

// AddScreenshot stores a PNG for userID.
func (r *Repository) AddScreenshot(ctx context.Context, userID string, data []byte) (Screenshot, error) {
	if userID == "" || len(data) == 0 {
		return Screenshot{}, fmt.Errorf("%w: userId and data required", ErrInvalid)
	}
	now := r.now().UTC()
	s := Screenshot{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "room-" + now.Format("20060102-150405") + ".png",
		Size:      len(data),
		CreatedAt: now,
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO screenshots (id, user_id, name, data, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, s.ID, s.UserID, s.Name, data, now.UnixNano())
	if err != nil {
		return Screenshot{}, fmt.Errorf("insert screenshot: %w", err)
	}
	return s, nil
}

// ListScreenshots returns the gallery of userID, newest first.
func (r *Repository) ListScreenshots(ctx context.Context, userID string) ([]Screenshot, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, name, length(data), created_at
        FROM screenshots
        WHERE user_id = ?
        ORDER BY created_at DESC, rowid DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query screenshots: %w", err)
	}
	defer rows.Close()

	out := []Screenshot{}
	for rows.Next() {
		var (
			s       Screenshot
			created int64
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Size, &created); err != nil {
			return nil, fmt.Errorf("scan screenshot: %w", err)
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// ScreenshotData returns the PNG bytes of one screenshot of userID.
func (r *Repository) ScreenshotData(ctx context.Context, userID, id string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `
        SELECT data FROM screenshots WHERE user_id = ? AND id = ?
    `, userID, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	return data, nil
}

// DeleteScreenshot removes one screenshot of userID.
func (r *Repository) DeleteScreenshot(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM screenshots WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete screenshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// persist.Provider
// ============================================================

func (r *Repository) SaveSnapshot(ctx context.Context, userID, name string, snap scene.Snapshot, preview []byte) (persist.Ack, error) {
	d, err := r.SaveDesign(ctx, Design{UserID: userID, Name: name, Room: snap.Room, Items: snap.Items, Preview: preview})
	if err != nil {
		return persist.Ack{}, err
	}
	return persist.Ack{ID: d.ID, CreatedAt: d.CreatedAt}, nil
}

func (r *Repository) LoadLatestSnapshot(ctx context.Context, userID string) (scene.Snapshot, bool, error) {
	d, err := r.LatestDesign(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return scene.Snapshot{}, false, nil
	}
	if err != nil {
		return scene.Snapshot{}, false, err
	}
	return scene.Snapshot{Items: d.Items, Room: d.Room}, true, nil
}

func (r *Repository) Catalog(ctx context.Context) ([]catalog.Entry, error) {
	return r.ListFurniture(ctx)
}

func (r *Repository) SaveScreenshot(ctx context.Context, userID string, png []byte) (persist.Ack, error) {
	s, err := r.AddScreenshot(ctx, userID, png)
	if err != nil {
		return persist.Ack{}, err
	}
	return persist.Ack{ID: s.ID, CreatedAt: s.CreatedAt}, nil
}
