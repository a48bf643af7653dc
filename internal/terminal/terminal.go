package terminal

import (
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/commands"
	"room-designer/internal/logger"
)

const (
	BarHeight = 40
	// Windowed, the bar sits this far above the bottom edge so a taskbar does not hide it.
	WindowedBarOffset = 56

	prompt      = "> "
	fontSize    = 20
	padding     = 8
	lineHeight  = fontSize + 4
	historySize = 32
	// Log lines shown above the bar.
	visibleLines = 14
	maxLineLen   = 200
	caretBlink   = 0.5 // seconds
)

var (
	barColor     = rl.NewColor(40, 40, 40, 255)
	barEdgeColor = rl.NewColor(80, 80, 80, 255)
	backlogColor = rl.NewColor(24, 24, 24, 240)
	warnColor    = rl.NewColor(250, 204, 21, 255)
	errorColor   = rl.NewColor(248, 113, 113, 255)
)

// Terminal is the console bar at the bottom of the screen, toggled with the backquote key.
// When open it takes all keyboard input; every submitted line is run through the command registry
// and the log lines are drawn above the bar.
type Terminal struct {
	log     *logger.Logger
	reg     *commands.Registry
	input   string
	open    bool
	font    rl.Font // zero texture: raylib default font
	history []string
	recall  int
	blink   float32
}

// New returns a closed console that logs to log and runs lines through reg.
func New(log *logger.Logger, reg *commands.Registry) *Terminal {
	return &Terminal{log: log, reg: reg}
}

func (t *Terminal) IsOpen() bool { return t.open }

func (t *Terminal) SetFont(font rl.Font) { t.font = font }

// Toggle opens or closes the console.
func (t *Terminal) Toggle() {
	t.open = !t.open
	t.input = ""
	t.recall = len(t.history)
}

// Submit runs one console line and records it in the history.
func (t *Terminal) Submit(line string) {
	t.log.Log(prompt + line)
	if n := len(t.history); n == 0 || t.history[n-1] != line {
		t.history = append(t.history, line)
		if len(t.history) > historySize {
			t.history = t.history[1:]
		}
	}
	t.recall = len(t.history)
	if err := t.reg.Run(line); err != nil {
		t.log.Errorf("%v", err)
	}
}

// Update handles the toggle key and, when open, editing, history and submit. Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyGrave) {
		t.Toggle()
		// Swallow the backquote character.
		for rl.GetCharPressed() != 0 {
		}
		return
	}
	if !t.open {
		return
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.Toggle()
		return
	}
	t.blink += rl.GetFrameTime()

	switch {
	case rl.IsKeyPressed(rl.KeyV) && modifierDown():
		t.input += rl.GetClipboardText()
	default:
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.input += string(rune(c))
		}
	}

	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		t.recallStep(-1)
	case rl.IsKeyPressed(rl.KeyDown):
		t.recallStep(1)
	case rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace):
		if t.input != "" {
			_, size := utf8.DecodeLastRuneInString(t.input)
			t.input = t.input[:len(t.input)-size]
		}
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter):
		if line := strings.TrimSpace(t.input); line != "" {
			t.input = ""
			t.Submit(line)
		}
	}
}

// modifierDown reports Ctrl or Cmd.
func modifierDown() bool {
	for _, k := range []int32{rl.KeyLeftControl, rl.KeyRightControl, rl.KeyLeftSuper, rl.KeyRightSuper} {
		if rl.IsKeyDown(k) {
			return true
		}
	}
	return false
}

// recallStep moves through the history. Stepping past the newest entry clears the bar.
func (t *Terminal) recallStep(d int) {
	next := t.recall + d
	if next < 0 || next > len(t.history) {
		return
	}
	t.recall = next
	t.input = ""
	if next < len(t.history) {
		t.input = t.history[next]
	}
}

// layout returns the bar and backlog tops in screen pixels.
func layout() (barY, backlogY, backlogH int32) {
	barY = int32(rl.GetScreenHeight()) - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}
	backlogH = visibleLines * lineHeight
	backlogY = max(barY-backlogH, 0)
	return barY, backlogY, barY - backlogY
}

// Draw draws the bar and the latest log lines when the console is open.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	w := int32(rl.GetScreenWidth())
	barY, backlogY, backlogH := layout()

	if backlogH > 0 {
		rl.DrawRectangle(0, backlogY, w, backlogH, backlogColor)
	}
	lines := t.log.Lines()
	if len(lines) > visibleLines {
		lines = lines[len(lines)-visibleLines:]
	}
	for i, line := range lines {
		if len(line) > maxLineLen {
			line = line[:maxLineLen-3] + "..."
		}
		t.text(line, padding, backlogY+int32(i)*lineHeight+padding, lineColor(line))
	}

	rl.DrawRectangle(0, barY, w, BarHeight, barColor)
	rl.DrawRectangle(0, barY, w, 1, barEdgeColor)
	caret := ""
	if int(t.blink/caretBlink)%2 == 0 {
		caret = "_"
	}
	t.text(prompt+t.input+caret, padding, barY+padding, rl.White)
}

func lineColor(line string) rl.Color {
	switch {
	case strings.Contains(line, "] ERROR "):
		return errorColor
	case strings.Contains(line, "] WARN "):
		return warnColor
	default:
		return rl.LightGray
	}
}

func (t *Terminal) text(s string, x, y int32, col rl.Color) {
	if t.font.Texture.ID == 0 {
		rl.DrawText(s, x, y, fontSize, col)
		return
	}
	rl.DrawTextEx(t.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, col)
}
