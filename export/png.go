package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/vector"

	"github.com/matt-g-everett/animtx/playback"
	"github.com/matt-g-everett/animtx/scene"
)

// kappa places cubic Bézier control points for a quarter ellipse.
const kappa = 0.5522847498

// PaintFrame rasterizes the visible shapes of f on a white canvas the size of
// the frame's window. Shapes are painted in scene order.
func PaintFrame(f *playback.Frame) *image.RGBA {
	win := f.Window
	dst := image.NewRGBA(image.Rect(0, 0, win.Width, win.Height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	z := vector.NewRasterizer(win.Width, win.Height)
	for _, s := range f.Visible() {
		z.Reset(win.Width, win.Height)
		x := float32(s.Position.X) - float32(win.X)
		y := float32(s.Position.Y) - float32(win.Y)
		w, h := float32(s.Size.W), float32(s.Size.H)

		switch s.Kind {
		case scene.Ellipse:
			ellipse(z, x, y, w, h)
		default:
			z.MoveTo(x, y)
			z.LineTo(x+w, y)
			z.LineTo(x+w, y+h)
			z.LineTo(x, y+h)
			z.ClosePath()
		}
		z.Draw(dst, dst.Bounds(), image.NewUniform(color.Color(s.Color)), image.Point{})
	}
	return dst
}

// ellipse traces an ellipse centred on (cx, cy) with radii rx and ry.
func ellipse(z *vector.Rasterizer, cx, cy, rx, ry float32) {
	kx, ky := rx*kappa, ry*kappa
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}

// WritePNG encodes the painted frame as PNG.
func WritePNG(w io.Writer, f *playback.Frame) error {
	return png.Encode(w, PaintFrame(f))
}
