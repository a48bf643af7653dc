package graphics

import (
	"image"
	"image/draw"

	rl "github.com/gen2brain/raylib-go/raylib"

	"room-designer/internal/capture"
)

// ScreenFrames reads the back buffer. It must be called on the render thread between BeginDrawing
// and EndDrawing, after the pass that should appear in the capture.
var ScreenFrames capture.FrameSource = capture.FrameFunc(readScreen)

func readScreen() (image.Image, error) {
	img := rl.LoadImageFromScreen()
	if img == nil || img.Width == 0 || img.Height == 0 {
		return nil, capture.ErrNoFrame
	}
	defer rl.UnloadImage(img)
	src := img.ToImage()
	// Copy out of C memory before the image is unloaded.
	out := image.NewNRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}
