package grid

import (
	"image"
	stdcolor "image/color"
	"testing"

	"github.com/maax3v3/colorreduce/internal/color"
)

func TestFromImage_OffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	src.SetNRGBA(10, 20, stdcolor.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(12, 21, stdcolor.NRGBA{0, 0, 255, 128})

	g := FromImage(src)

	if g.Width != 3 || g.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", g.Width, g.Height)
	}
	if got := g.At(0, 0); got != (color.RGBA{R: 255, G: 0, B: 0, A: 255}) {
		t.Errorf("(0,0): got %+v, want red", got)
	}
	if got := g.At(2, 1); got != (color.RGBA{R: 0, G: 0, B: 255, A: 128}) {
		t.Errorf("(2,1): got %+v, want half-transparent blue", got)
	}
}

func TestFromImage_PremultipliedSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	// Premultiplied (100,50,0) at alpha 128 is roughly (199,99,0) straight.
	src.SetRGBA(0, 0, stdcolor.RGBA{100, 50, 0, 128})

	got := FromImage(src).At(0, 0)
	if got.A != 128 {
		t.Fatalf("alpha: got %d, want 128", got.A)
	}
	if got.R < 195 || got.R > 201 {
		t.Errorf("red should be un-premultiplied, got %d", got.R)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	pix := []uint8{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	g := FromBytes(2, 2, pix)
	if g.At(1, 1) != (color.RGBA{R: 13, G: 14, B: 15, A: 16}) {
		t.Errorf("(1,1): got %+v", g.At(1, 1))
	}
	out := g.Bytes()
	for i := range pix {
		if out[i] != pix[i] {
			t.Fatalf("byte %d: got %d, want %d", i, out[i], pix[i])
		}
	}
}

func TestAssemble(t *testing.T) {
	pix := []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255}, {R: 0, G: 255, B: 0, A: 10},
		{R: 0, G: 0, B: 255, A: 0}, {R: 1, G: 2, B: 3, A: 4},
	}
	img := Assemble(2, 2, pix)

	if img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds: got %v", img.Bounds())
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			got := img.NRGBAAt(x, y)
			want := pix[y*2+x].ToStdColor()
			if got != want {
				t.Errorf("(%d,%d): got %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestSetAt(t *testing.T) {
	g := New(3, 2)
	g.Set(2, 1, color.RGBA{R: 9, G: 9, B: 9, A: 9})
	if g.Pix[5] != (color.RGBA{R: 9, G: 9, B: 9, A: 9}) {
		t.Errorf("Set wrote to the wrong index")
	}
	if g.Len() != 6 {
		t.Errorf("Len: got %d, want 6", g.Len())
	}
}
