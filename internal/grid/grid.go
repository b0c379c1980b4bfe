// Package grid holds the dense row-major pixel buffer shared by every stage
// and converts it to and from images.
package grid

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/maax3v3/colorreduce/internal/color"
)

// Grid is a width×height block of non-premultiplied pixels.
// Pix is row-major: index = y*Width + x.
type Grid struct {
	Width, Height int
	Pix           []color.RGBA
}

// New allocates a zeroed grid.
func New(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]color.RGBA, width*height),
	}
}

// At returns the pixel at (x, y).
func (g *Grid) At(x, y int) color.RGBA {
	return g.Pix[y*g.Width+x]
}

// Set writes the pixel at (x, y).
func (g *Grid) Set(x, y int, c color.RGBA) {
	g.Pix[y*g.Width+x] = c
}

// Len returns the number of pixels.
func (g *Grid) Len() int {
	return len(g.Pix)
}

// FromImage copies any image into a grid. The image is normalized to
// 8-bit non-premultiplied RGBA and its bounds are shifted to the origin.
func FromImage(img image.Image) *Grid {
	n := imaging.Clone(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	g := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Pix[y*w+x] = color.FromStdColor(n.NRGBAAt(x, y))
		}
	}
	return g
}

// FromBytes wraps an RGBA8 buffer of length 4*width*height. The caller
// guarantees the length; it is not checked.
func FromBytes(width, height int, pix []uint8) *Grid {
	g := New(width, height)
	for i := range g.Pix {
		off := i * 4
		g.Pix[i] = color.RGBA{R: pix[off], G: pix[off+1], B: pix[off+2], A: pix[off+3]}
	}
	return g
}

// Bytes flattens the grid back into an RGBA8 buffer.
func (g *Grid) Bytes() []uint8 {
	out := make([]uint8, len(g.Pix)*4)
	for i, c := range g.Pix {
		off := i * 4
		out[off] = c.R
		out[off+1] = c.G
		out[off+2] = c.B
		out[off+3] = c.A
	}
	return out
}

// Assemble builds the output image from the final per-pixel colors:
// pixel (x, y) is pix[y*width+x], alpha included.
func Assemble(width, height int, pix []color.RGBA) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.SetNRGBA(x, y, pix[y*width+x].ToStdColor())
		}
	}
	return out
}
