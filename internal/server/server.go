// Package server exposes the design store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"room-designer/internal/catalog"
	"room-designer/internal/scene"
	"room-designer/internal/store"
)

// Config holds the HTTP settings.
type Config struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AccessLog receives one line per request. Nil disables access logging.
	AccessLog io.Writer
}

// Handler serves designs, furniture and screenshots.
type Handler struct {
	repo *store.Repository
}

func NewHandler(repo *store.Repository) *Handler {
	return &Handler{repo: repo}
}

// New builds the app with every route registered.
func New(repo *store.Repository, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		AppName:      "Room Designer",
	})

	app.Use(recover.New())
	if cfg.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format:     "${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			Stream:     cfg.AccessLog,
		}))
	}

	h := NewHandler(repo)

	// ============================================================
	// Health
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", h.Ready)

	// ============================================================
	// API
	// ============================================================

	app.Post("/api/designs", h.SaveDesign)
	app.Get("/api/designs/:userId", h.ListDesigns)
	app.Get("/api/designs/:userId/latest", h.LatestDesign)
	app.Get("/api/designs/:userId/latest/preview.png", h.LatestPreview)

	app.Get("/api/furniture", h.ListFurniture)
	app.Post("/api/furniture", h.AddFurniture)

	app.Post("/api/screenshots/:userId", h.UploadScreenshot)
	app.Get("/api/screenshots/:userId", h.ListScreenshots)
	app.Get("/api/screenshots/:userId/:id", h.GetScreenshot)
	app.Delete("/api/screenshots/:userId/:id", h.DeleteScreenshot)

	return app
}

func errJSON(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// Ready checks that the database answers.
func (h *Handler) Ready(c fiber.Ctx) error {
	if _, err := h.repo.ListFurniture(context.Background()); err != nil {
		return errJSON(c, http.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

type saveDesignRequest struct {
	UserID string            `json:"userId"`
	Name   string            `json:"name"`
	Items  []scene.Item      `json:"items"`
	Room   *scene.RoomConfig `json:"room"`
}

// SaveDesign stores a design. Room is optional; the default room is used without one.
func (h *Handler) SaveDesign(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return errJSON(c, http.StatusBadRequest, "empty body")
	}
	var req saveDesignRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid json")
	}
	d := store.Design{UserID: req.UserID, Name: req.Name, Items: req.Items}
	if req.Room != nil {
		d.Room = *req.Room
	}
	saved, err := h.repo.SaveDesign(context.Background(), d)
	if errors.Is(err, store.ErrInvalid) {
		return errJSON(c, http.StatusBadRequest, "userId required")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "design": saved})
}

// ListDesigns returns every design of a user, oldest first.
func (h *Handler) ListDesigns(c fiber.Ctx) error {
	list, err := h.repo.ListDesigns(context.Background(), c.Params("userId"))
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(list)
}

// latest writes the error response itself when ok is false.
func (h *Handler) latest(c fiber.Ctx) (d store.Design, ok bool, err error) {
	d, err = h.repo.LatestDesign(context.Background(), c.Params("userId"))
	if errors.Is(err, store.ErrNotFound) {
		return d, false, errJSON(c, http.StatusNotFound, "no designs")
	}
	if err != nil {
		return d, false, errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return d, true, nil
}

func (h *Handler) LatestDesign(c fiber.Ctx) error {
	d, ok, err := h.latest(c)
	if !ok {
		return err
	}
	return c.JSON(d)
}

func (h *Handler) LatestPreview(c fiber.Ctx) error {
	d, ok, err := h.latest(c)
	if !ok {
		return err
	}
	if len(d.Preview) == 0 {
		return errJSON(c, http.StatusNotFound, "no preview")
	}
	c.Set("Content-Type", "image/png")
	return c.Send(d.Preview)
}

func (h *Handler) ListFurniture(c fiber.Ctx) error {
	list, err := h.repo.ListFurniture(context.Background())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(list)
}

// AddFurniture inserts one catalog entry.
func (h *Handler) AddFurniture(c fiber.Ctx) error {
	var e catalog.Entry
	if err := json.Unmarshal(c.Body(), &e); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid json")
	}
	err := h.repo.AddFurniture(context.Background(), e)
	switch {
	case errors.Is(err, store.ErrInvalid):
		return errJSON(c, http.StatusBadRequest, "id, name and type required")
	case errors.Is(err, store.ErrDuplicate):
		return errJSON(c, http.StatusConflict, "furniture id already exists")
	case err != nil:
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(e)
}

// UploadScreenshot stores the raw PNG request body.
func (h *Handler) UploadScreenshot(c fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return errJSON(c, http.StatusBadRequest, "empty body")
	}
	if http.DetectContentType(body) != "image/png" {
		return errJSON(c, http.StatusUnsupportedMediaType, "png required")
	}
	data := make([]byte, len(body))
	copy(data, body)
	s, err := h.repo.AddScreenshot(context.Background(), c.Params("userId"), data)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(s)
}

func (h *Handler) ListScreenshots(c fiber.Ctx) error {
	list, err := h.repo.ListScreenshots(context.Background(), c.Params("userId"))
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(list)
}

func (h *Handler) GetScreenshot(c fiber.Ctx) error {
	data, err := h.repo.ScreenshotData(context.Background(), c.Params("userId"), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "screenshot not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	c.Set("Content-Type", "image/png")
	return c.Send(data)
}

func (h *Handler) DeleteScreenshot(c fiber.Ctx) error {
	err := h.repo.DeleteScreenshot(context.Background(), c.Params("userId"), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errJSON(c, http.StatusNotFound, "screenshot not found")
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}
