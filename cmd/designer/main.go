package main

import (
	"context"
	"os"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"room-designer/internal/catalog"
	"room-designer/internal/commands"
	"room-designer/internal/config"
	"room-designer/internal/debug"
	"room-designer/internal/designer"
	"room-designer/internal/env"
	"room-designer/internal/fonts"
	"room-designer/internal/graphics"
	"room-designer/internal/logger"
	"room-designer/internal/notify"
	"room-designer/internal/persist"
	"room-designer/internal/store"
	"room-designer/internal/terminal"
	"room-designer/internal/tour"
)

func main() {
	log := logger.New()
	if err := env.Load(".env"); err != nil {
		log.Warnf("load .env: %v", err)
	}
	settings := config.FromEnv()
	prefs := config.Load(config.PrefsPath)
	if err := notify.SetLanguage(prefs.Language); err != nil {
		log.Warnf("language %s: %v", prefs.Language, err)
	}

	cat, err := catalog.Load(settings.CatalogDir)
	if err != nil {
		log.Errorf("catalog: %v", err)
		os.Exit(1)
	}

	var provider persist.Provider
	db, err := store.OpenSQLite(settings.DBPath)
	if err != nil {
		log.Errorf("open db: %v", err)
	} else {
		defer db.Close()
		repo := store.New(db)
		if err := repo.Init(context.Background(), cat.Entries()); err != nil {
			log.Errorf("init db: %v", err)
		} else {
			provider = repo
		}
	}

	tcfg := tour.DefaultConfig()
	tcfg.Sensitivity = prefs.MouseSensitivity
	ctl := designer.New(designer.Options{
		UserID:   settings.UserID,
		Room:     prefs.Room,
		Catalog:  cat,
		Provider: provider,
		Log:      log,
		Tour:     tcfg,
		Minimap:  prefs.MinimapVisible,
	})
	defer ctl.Close()
	if err := ctl.WatchCatalog(settings.CatalogDir); err != nil {
		log.Warnf("catalog watch %s: %v", settings.CatalogDir, err)
	}
	ctl.RefreshListing()

	reg := commands.NewRegistry()
	ctl.Register(reg)
	term := terminal.New(log, reg)

	dbg := debug.New()
	dbg.SetShowFPS(prefs.ShowFPS)
	dbg.SetShowMemAlloc(prefs.ShowMemAlloc)

	app := graphics.NewDesigner(ctl, term, dbg)
	app.CSSPath = settings.CSSPath
	if path, err := fonts.Find(settings.Font); err == nil {
		app.FontPath = path
	}
	app.Renderer().Grid = prefs.GridVisible
	registerView(reg, app, dbg)

	log.Logf("designer started for %s (%d furniture types)", settings.UserID, len(cat.Types()))
	graphics.Run(graphics.DefaultConfig(), app)

	prefs.Room = ctl.Scene().Room()
	prefs.MinimapVisible = ctl.MinimapEnabled()
	prefs.GridVisible = app.Renderer().Grid
	prefs.ShowFPS = dbg.ShowFPS
	prefs.ShowMemAlloc = dbg.ShowMemAlloc
	if err := config.Save(config.PrefsPath, prefs); err != nil {
		log.Errorf("save prefs: %v", err)
	}
}

// registerView adds the console commands that only concern the window.
func registerView(reg *commands.Registry, app *graphics.Designer, dbg *debug.Debug) {
	reg.Register("grid", "", nil, func([]string) error {
		app.Renderer().Grid = !app.Renderer().Grid
		return nil
	})
	reg.Register("debug", "fps|mem|stats", nil, func(args []string) error {
		if len(args) != 1 {
			return commands.ErrUsage
		}
		switch args[0] {
		case "fps":
			dbg.ShowFPS = !dbg.ShowFPS
		case "mem":
			dbg.ShowMemAlloc = !dbg.ShowMemAlloc
		case "stats":
			dbg.ShowStats = !dbg.ShowStats
		default:
			return commands.ErrUsage
		}
		return nil
	})
}
