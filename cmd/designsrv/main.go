package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"room-designer/internal/catalog"
	"room-designer/internal/config"
	"room-designer/internal/env"
	"room-designer/internal/logger"
	"room-designer/internal/server"
	"room-designer/internal/store"
)

// ============================================================
// Design Service
// ============================================================

func main() {
	log := logger.NewWithPath("logs/designsrv.txt")
	log.SetEcho(true)
	if err := env.Load(".env"); err != nil {
		log.Warnf("load .env: %v", err)
	}
	cfg := config.FromEnv()

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		fatal(log, "open db: %v", err)
	}
	defer db.Close()

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		fatal(log, "catalog: %v", err)
	}
	repo := store.New(db)
	if err := repo.Init(context.Background(), cat.Entries()); err != nil {
		fatal(log, "init db: %v", err)
	}

	app := server.New(repo, server.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AccessLog:    log,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Logf("starting design service on %s (db %s)", addr, cfg.DBPath)
	if err := app.Listen(addr); err != nil {
		fatal(log, "listen: %v", err)
	}
}

func fatal(log *logger.Logger, format string, args ...any) {
	log.Errorf(format, args...)
	os.Exit(1)
}
