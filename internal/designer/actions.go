package designer

import (
	"bytes"

	"github.com/anthonynsimon/bild/imgio"

	"room-designer/internal/capture"
	"room-designer/internal/catalog"
	"room-designer/internal/geom"
	"room-designer/internal/input"
	"room-designer/internal/mode"
	"room-designer/internal/notify"
	"room-designer/internal/persist"
	"room-designer/internal/scene"
)

// ============================================================
// Keys
// ============================================================

func (c *Controller) handleKey(ev input.Event) {
	if ev.Kind != input.KeyDown {
		return
	}
	inTour := c.modes.Mode() == mode.Tour
	switch ev.Action {
	case input.ActionScreenshot:
		c.RequestScreenshot()
	case input.ActionToggleMinimap:
		if inTour {
			c.ToggleMinimap()
		}
	case input.ActionRelease:
		if !inTour {
			c.Deselect()
		}
	case input.ActionDelete:
		if !inTour {
			c.DeleteSelected()
		}
	case input.ActionEditMode:
		c.SetMode(mode.Edit3D)
	case input.ActionBlueprintMode:
		c.SetMode(mode.Blueprint2D)
	case input.ActionTourMode:
		c.SetMode(mode.Tour)
	}
}

// ExitTour leaves the tour for the mode that was active before it.
func (c *Controller) ExitTour() bool { return c.modes.ExitTour() }

// ============================================================
// Selection
// ============================================================

// AddItem places a new item of typ at the room centre and selects it.
func (c *Controller) AddItem(typ string) string {
	id := c.scene.AddItem(typ)
	c.scene.SetSelected(id)
	return id
}

func (c *Controller) Select(id string) bool {
	if _, ok := c.scene.Item(id); !ok {
		return false
	}
	c.editor.CancelDrag()
	c.scene.SetSelected(id)
	return true
}

func (c *Controller) Deselect() {
	c.editor.CancelDrag()
	c.scene.SetSelected("")
}

// DeleteSelected removes the selection. It reports false when nothing was selected.
func (c *Controller) DeleteSelected() bool {
	id := c.scene.SelectedID()
	if id == "" {
		c.notes.Info(notify.T("NOTHING_SELECTED"))
		return false
	}
	c.editor.CancelDrag()
	return c.scene.DeleteItem(id)
}

// Pick returns the furniture id under r, or "" when r hits a wall, the floor or nothing.
func (c *Controller) Pick(r geom.Ray) string {
	c.world.Sync(c.scene)
	hit, ok := c.world.Raycast(r, PickDistance)
	if !ok {
		return ""
	}
	id, _ := c.world.OwnerOf(hit.Node)
	return id
}

// ============================================================
// Pointer
// ============================================================

// PointerDown handles a primary click along r. In the tour it captures the pointer. In the edit
// views it selects what was hit and starts a drag, and a click on empty space clears the selection.
func (c *Controller) PointerDown(r geom.Ray) {
	if c.modes.Mode() == mode.Tour {
		c.tour.Lock()
		return
	}
	if c.editor.Dragging() {
		return
	}
	id := c.Pick(r)
	if id == "" {
		c.scene.SetSelected("")
		return
	}
	c.scene.SetSelected(id)
	c.editor.BeginDrag(r)
}

// PointerMove follows the pointer with the live drag, if any.
func (c *Controller) PointerMove(r geom.Ray) {
	c.editor.Drag(r)
}

// PointerUp commits the drag.
func (c *Controller) PointerUp() bool {
	return c.editor.EndDrag()
}

// Look turns the tour camera by a pointer delta in pixels.
func (c *Controller) Look(dx, dy float32) {
	if c.modes.Mode() == mode.Tour {
		c.tour.Look(dx, dy)
	}
}

func (c *Controller) Orbit(dAzimuth, dPolar float32) bool { return c.modes.OrbitBy(dAzimuth, dPolar) }

func (c *Controller) Pan(dx, dz float32) bool { return c.modes.PanBy(dx, dz) }

// Zoom changes the tour field of view, or the orbit distance elsewhere.
func (c *Controller) Zoom(steps float32) {
	if c.modes.Mode() == mode.Tour {
		c.tour.Zoom(steps)
		return
	}
	factor := float32(1)
	switch {
	case steps > 0:
		factor = 0.9
	case steps < 0:
		factor = 1.1
	}
	c.modes.ZoomBy(factor)
}

// ============================================================
// Room
// ============================================================

// SetRoom resizes or restyles the room. Items are not moved.
func (c *Controller) SetRoom(r scene.RoomConfig) bool {
	if !r.Valid() {
		return false
	}
	c.scene.SetRoom(r)
	if c.modes.Mode() == mode.Tour {
		c.world.Sync(c.scene)
		c.tour.Start(c.bus, r)
	}
	return true
}

// ============================================================
// Screenshots
// ============================================================

// RequestScreenshot defers the capture until the next presented frame.
func (c *Controller) RequestScreenshot() { c.shotPending = true }

// ScreenshotPending reports whether the renderer should call FlushScreenshot after drawing.
func (c *Controller) ScreenshotPending() bool { return c.shotPending }

// FlushScreenshot performs a requested capture.
func (c *Controller) FlushScreenshot() {
	if !c.shotPending {
		return
	}
	c.shotPending = false
	c.Screenshot()
}

// Screenshot grabs the current frame and uploads it.
func (c *Controller) Screenshot() {
	data, err := c.capture.CaptureFrame()
	if err != nil {
		c.log.Errorf("screenshot: %v", err)
		c.notes.Error(notify.T("SCREENSHOT_FAILED", err.Error()))
		return
	}
	c.persist.SaveScreenshot(c.userID, data, func(ack persist.Ack, err error) {
		if err != nil {
			c.log.Errorf("screenshot upload: %v", err)
			c.notes.Error(notify.T("SCREENSHOT_FAILED", err.Error()))
			return
		}
		c.log.Logf("screenshot %s stored (%d bytes)", ack.ID, len(data))
		c.notes.Success(notify.T("SCREENSHOT_SAVED"))
	})
}

// ============================================================
// Designs
// ============================================================

// Save stores the current scene with a blueprint thumbnail.
func (c *Controller) Save(name string) {
	snap, err := c.scene.Snapshot()
	if err != nil {
		c.notes.Error(notify.T("DESIGN_SAVE_FAILED", err.Error()))
		return
	}
	preview, err := c.preview()
	if err != nil {
		c.log.Warnf("design preview: %v", err)
	}
	c.persist.SaveSnapshot(c.userID, name, snap, preview, func(ack persist.Ack, err error) {
		if err != nil {
			c.log.Errorf("save design: %v", err)
			c.notes.Error(notify.T("DESIGN_SAVE_FAILED", err.Error()))
			return
		}
		c.log.Logf("design %s saved with %d items", ack.ID, len(snap.Items))
		c.notes.Success(notify.T("DESIGN_SAVED"))
	})
}

func (c *Controller) preview() ([]byte, error) {
	bp := capture.NewBlueprint(c.scene, c.shape, 640, 480)
	img, err := bp.Frame()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, capture.Thumbnail(img, PreviewWidth)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadLatest replaces the scene with the newest saved design. A running tour restarts in the
// loaded room.
func (c *Controller) LoadLatest() {
	c.persist.LoadLatest(c.userID, func(snap scene.Snapshot, ok bool, err error) {
		switch {
		case err != nil:
			c.log.Errorf("load design: %v", err)
			c.notes.Error(notify.T("DESIGN_LOAD_FAILED", err.Error()))
			return
		case !ok:
			c.notes.Info(notify.T("NO_SAVED_DESIGN"))
			return
		}
		room := snap.Room
		if !room.Valid() {
			room = scene.DefaultRoom()
		}
		c.editor.CancelDrag()
		c.scene.Load(snap.Items, room)
		c.world.Invalidate()
		c.world.Sync(c.scene)
		if c.modes.Mode() == mode.Tour {
			c.tour.Start(c.bus, room)
		}
		c.notes.Success(notify.T("DESIGN_LOADED", len(snap.Items)))
	})
}

// ============================================================
// Catalog
// ============================================================

// Listing is the furniture catalog most recently fetched from the backend.
func (c *Controller) Listing() []catalog.Entry {
	if c.listing == nil {
		return c.catalog.Entries()
	}
	out := make([]catalog.Entry, len(c.listing))
	copy(out, c.listing)
	return out
}

// RefreshListing fetches the furniture listing from the backend.
func (c *Controller) RefreshListing() {
	c.persist.Catalog(func(entries []catalog.Entry, err error) {
		if err != nil {
			c.log.Warnf("furniture listing: %v", err)
			c.notes.Error(notify.T("CATALOG_FAILED", err.Error()))
			return
		}
		c.listing = entries
		c.log.Logf("furniture listing: %d entries", len(entries))
	})
}

// SetCatalog swaps the definitions. Geometry of existing items follows on the next tick.
func (c *Controller) SetCatalog(cat *catalog.Catalog) {
	if cat == nil {
		return
	}
	c.catalog = cat
	c.scene.SetDefaults(c.defaults)
	c.world.Invalidate()
	c.notes.Info(notify.T("CATALOG_RELOADED", len(cat.Types())))
}

// WatchCatalog reloads the definitions from dir whenever a YAML file there changes. Reloads are
// parsed off the frame thread and applied on the next tick.
func (c *Controller) WatchCatalog(dir string) error {
	w, err := catalog.NewWatcher(dir)
	if err != nil {
		return err
	}
	go func() {
		for name := range w.Events {
			cat, err := catalog.Load(dir)
			c.persist.Post(func() {
				if err != nil {
					c.log.Errorf("reload %s: %v", name, err)
					c.notes.Error(notify.T("CATALOG_FAILED", err.Error()))
					return
				}
				c.SetCatalog(cat)
			})
		}
	}()
	go func() {
		for err := range w.Errors {
			c.persist.Post(func() { c.log.Warnf("catalog watch: %v", err) })
		}
	}()
	if c.watchStop != nil {
		c.watchStop()
	}
	c.watchStop = func() { _ = w.Close() }
	return nil
}
