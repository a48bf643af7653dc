// Package config holds the designer preferences persisted across runs and the runtime settings
// read from the environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"room-designer/internal/env"
	"room-designer/internal/scene"
)

// PrefsPath is the path to the preferences file, relative to the process working directory.
const PrefsPath = "config/designer.json"

// Prefs holds designer-only preferences (debug overlays, minimap, look speed). Designs are
// stored separately.
type Prefs struct {
	ShowFPS          bool             `json:"show_fps"`
	ShowMemAlloc     bool             `json:"show_memalloc"`
	GridVisible      bool             `json:"grid_visible"`
	MinimapVisible   bool             `json:"minimap_visible"`
	MouseSensitivity float32          `json:"mouse_sensitivity"`
	Language         string           `json:"language,omitempty"`
	Room             scene.RoomConfig `json:"room"`
}

// Default returns default preferences (debug overlays off, grid and minimap on).
func Default() Prefs {
	return Prefs{
		GridVisible:      true,
		MinimapVisible:   true,
		MouseSensitivity: 0.002,
		Language:         "en",
		Room:             scene.DefaultRoom(),
	}
}

// Load reads preferences from path. If the file is missing or invalid it returns Default()
// and does not create a file. Fields absent from the file keep their defaults.
func Load(path string) Prefs {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Default()
	}
	if !p.Room.Valid() {
		p.Room = scene.DefaultRoom()
	}
	if p.MouseSensitivity <= 0 {
		p.MouseSensitivity = Default().MouseSensitivity
	}
	return p
}

// Save writes preferences to path, creating the directory if needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Settings are read from the environment at start-up.
type Settings struct {
	DBPath       string
	UserID       string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CatalogDir   string
	Font         string
	CSSPath      string
}

// FromEnv loads Settings, falling back to local defaults.
func FromEnv() Settings {
	return Settings{
		DBPath:       env.String("DESIGNER_DB_PATH", "data/db/designer.db"),
		UserID:       env.String("DESIGNER_USER_ID", "local"),
		Port:         env.String("PORT", "5000"),
		ReadTimeout:  env.Seconds("READ_TIMEOUT", 10*time.Second),
		WriteTimeout: env.Seconds("WRITE_TIMEOUT", 10*time.Second),
		CatalogDir:   env.String("CATALOG_DIR", "assets/furniture"),
		Font:         env.String("DESIGNER_FONT", "Inter"),
		CSSPath:      env.String("DESIGNER_CSS", ""),
	}
}
