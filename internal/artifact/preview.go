package artifact

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/mj1618/rigi-cli/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	previewBox     = color.RGBA{R: 10, G: 54, B: 121, A: 255}
	previewText    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	previewOutline = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// DrawPreview draws a box around every label and writes its key at the top
// left corner. Label rects are in screen points; they are scaled to the
// pixel size of img.
func DrawPreview(img image.Image, labels []model.LabelCandidate, screen model.Rect) *image.RGBA {
	rgba := toRGBA(img)

	b := img.Bounds()
	scaleX, scaleY := 1.0, 1.0
	if screen.Width > 0 {
		scaleX = float64(b.Dx()) / screen.Width
	}
	if screen.Height > 0 {
		scaleY = float64(b.Dy()) / screen.Height
	}

	for _, l := range labels {
		x := b.Min.X + int((l.Rect.X-screen.X)*scaleX)
		y := b.Min.Y + int((l.Rect.Y-screen.Y)*scaleY)
		w := int(l.Rect.Width * scaleX)
		h := int(l.Rect.Height * scaleY)
		drawRectangle(rgba, x, y, x+w, y+h, previewBox)
		drawTextWithOutline(rgba, l.Key, x+2, y+basicfont.Face7x13.Ascent+1, previewText, previewOutline)
	}
	return rgba
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		out := image.NewRGBA(rgba.Bounds())
		copy(out.Pix, rgba.Pix)
		return out
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// drawRectangle draws a one pixel outline clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	x1, y1 = max(x1, bounds.Min.X), max(y1, bounds.Min.Y)
	x2, y2 = min(x2, bounds.Max.X), min(y2, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}
	for x := x1; x < x2; x++ {
		img.Set(x, y1, c)
		img.Set(x, y2-1, c)
	}
	for y := y1; y < y2; y++ {
		img.Set(x1, y, c)
		img.Set(x2-1, y, c)
	}
}

// drawTextWithOutline draws text with its baseline at (x, y).
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	drawer := func(c color.Color, dx, dy int) *font.Drawer {
		return &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+dx, y+dy),
		}
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawer(outlineColor, dx, dy).DrawString(text)
		}
	}
	drawer(textColor, 0, 0).DrawString(text)
}
