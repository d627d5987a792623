package snapshotfile

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/model"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

var canvasBackground = color.RGBA{R: 0xf2, G: 0xf2, B: 0xf7, A: 0xff}

// Screenshotter implements platform.Screenshotter. With an image file it
// returns that bitmap resampled to the requested size; without one it draws
// a wireframe of the tree's visible texts onto a blank canvas.
type Screenshotter struct {
	imagePath string
	scale     float64
	reader    *Reader
}

// NewScreenshotter returns a screenshotter. imagePath may be empty.
func NewScreenshotter(imagePath string, scale float64, reader *Reader) *Screenshotter {
	if scale <= 0 {
		scale = 1
	}
	return &Screenshotter{imagePath: imagePath, scale: scale, reader: reader}
}

// Capture returns a bitmap of bounds at the configured pixel scale.
func (s *Screenshotter) Capture(ctx context.Context, bounds model.Rect) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bounds.IsEmpty() || !bounds.IsFinite() {
		return nil, fmt.Errorf("cannot capture empty bounds %v", bounds)
	}
	w := int(math.Round(bounds.Width * s.scale))
	h := int(math.Round(bounds.Height * s.scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if s.imagePath != "" {
		src, err := decodeImage(s.imagePath)
		if err != nil {
			return nil, err
		}
		if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
			return src, nil
		}
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		return dst, nil
	}

	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(canvasBackground), image.Point{}, xdraw.Src)
	if s.reader != nil {
		snap, err := s.reader.ReadTree(ctx)
		if err != nil {
			return nil, err
		}
		s.drawWireframe(dst, snap.Root, bounds)
	}
	return dst, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bitmap: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bitmap %s: %w", path, err)
	}
	return img, nil
}

// drawWireframe writes every visible text at its frame origin.
func (s *Screenshotter) drawWireframe(dst *image.RGBA, root *model.Node, bounds model.Rect) {
	model.Walk(root, func(n *model.Node, _ int) {
		if n.Kind != model.KindText {
			return
		}
		text := marker.Strip(n.Text)
		if text == "" {
			return
		}
		c := n.Color
		if c == (model.Color{}) {
			c = model.Black
		}
		x := int((n.Frame.X - bounds.X) * s.scale)
		y := int((n.Frame.Y - bounds.Y) * s.scale)
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
		}
		d.DrawString(text)
	})
}
