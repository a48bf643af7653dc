package ui

import (
	_ "embed"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/ui/stylesheet"
)

//go:embed designer.css
var defaultCSS string

// Engine holds the current stylesheet and nodes, and draws them with raylib.
// Draw order is node order (first node drawn first, then on top the next).
// Resolved styles are cached per class and id and only recomputed when the sheet changes.
type Engine struct {
	sheet  *stylesheet.Sheet
	nodes  []*Node
	styles map[string]stylesheet.Style
	font   rl.Font
}

// New creates an engine using the built-in stylesheet.
func New() *Engine {
	e := &Engine{}
	if sheet, err := stylesheet.Parse(defaultCSS); err == nil {
		e.SetStylesheet(sheet)
	}
	return e
}

// LoadCSS loads and parses a CSS file from path. Replaces the current stylesheet.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := stylesheet.Parse(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *stylesheet.Sheet) {
	e.sheet = sheet
	e.styles = make(map[string]stylesheet.Style)
}

// LoadFont loads a TTF font from path for text rendering. If loading fails, the engine keeps using the default font.
// Call after the window/OpenGL context exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// Font is the loaded font, zero when the raylib default is used.
func (e *Engine) Font() rl.Font { return e.font }

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
}

// Style resolves the style of a class and id pair.
func (e *Engine) Style(class, id string) stylesheet.Style {
	key := class + "#" + id
	if s, ok := e.styles[key]; ok {
		return s
	}
	s := stylesheet.Resolve(e.sheet.Match(class, id))
	if e.styles == nil {
		e.styles = make(map[string]stylesheet.Style)
	}
	e.styles[key] = s
	return s
}

// MeasureText returns the pixel width of text at size.
func (e *Engine) MeasureText(text string, size int32) int32 {
	if e.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(e.font, text, float32(size), 1).X)
	}
	return rl.MeasureText(text, size)
}

// DrawText draws text with the engine font.
func (e *Engine) DrawText(text string, x, y, size int32, col rl.Color) {
	if e.font.Texture.ID != 0 {
		rl.DrawTextEx(e.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
		return
	}
	rl.DrawText(text, x, y, size, col)
}

// Draw draws all nodes: resolve style, place the node, then draw background, border and text.
// Nodes without a size from the sheet or their own bounds are sized to their text.
func (e *Engine) Draw() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	for _, n := range e.nodes {
		style := e.Style(n.Class, n.ID)
		if style.Hidden {
			continue
		}
		w, h := int32(n.Bounds.Width), int32(n.Bounds.Height)
		if style.Width > 0 {
			w = style.Width
		}
		if style.Height > 0 {
			h = style.Height
		}
		if w == 0 && n.Text != "" {
			w = e.MeasureText(n.Text, style.FontSize) + 2*style.Padding
		}
		if h == 0 && n.Text != "" {
			h = style.FontSize + 2*style.Padding
		}

		x, y := int32(n.Bounds.X)+style.Left, int32(n.Bounds.Y)+style.Top
		if style.LeftPct >= 0 {
			x = (screenW-w)*style.LeftPct/100 + int32(n.Bounds.X)
		}
		if style.TopPct >= 0 {
			y = (screenH-h)*style.TopPct/100 + int32(n.Bounds.Y)
		}
		n.Placed = rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}

		if style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, style.Background)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text != "" {
			e.DrawText(n.Text, x+style.Padding, y+style.Padding, style.FontSize, style.Color)
		}
	}
}
