package color

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a non-premultiplied color with 8-bit RGBA components.
type RGBA struct {
	R, G, B, A uint8
}

// FromStdColor converts a standard library color to non-premultiplied RGBA.
func FromStdColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ToStdColor converts RGBA to a standard library color.
func (c RGBA) ToStdColor() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// WithAlpha returns c with its alpha channel replaced.
func (c RGBA) WithAlpha(a uint8) RGBA {
	c.A = a
	return c
}

// Hex formats the color channels as "#RRGGBB".
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex parses a hex color string like "#000", "#000000", "#FF00FF".
func ParseHex(s string) (RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		_, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r = r*16 + r
		g = g*16 + g
		b = b*16 + b
	case 6:
		_, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q: must be 3 or 6 hex digits", s)
	}
	return RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParsePalette parses a comma-separated list of hex colors such as
// "#000,#FFF,#FF0000". Blank entries are skipped; order and duplicates
// are preserved.
func ParsePalette(list string) ([]RGBA, error) {
	var palette []RGBA
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		c, err := ParseHex(field)
		if err != nil {
			return nil, err
		}
		palette = append(palette, c)
	}
	return palette, nil
}

// ReadPalette reads one hex color per line. Empty lines and lines starting
// with "//" or ";" are ignored, as is anything after the first whitespace
// on a line, so swatch files like "#FF0000 red" work.
func ReadPalette(r io.Reader) ([]RGBA, error) {
	var palette []RGBA
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "//") || strings.HasPrefix(text, ";") {
			continue
		}
		if i := strings.IndexAny(text, " \t"); i >= 0 {
			text = text[:i]
		}
		c, err := ParseHex(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		palette = append(palette, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading palette: %w", err)
	}
	return palette, nil
}

// LAB represents a color in the CIELAB color space (L in 0–100).
type LAB struct {
	L, A, B float64
}

// ToLAB converts the color channels of c to CIELAB (D65), going through
// linear sRGB and XYZ. Alpha is ignored.
func (c RGBA) ToLAB() LAB {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	l, a, b := cf.Lab()
	// go-colorful reports L in [0,1]; scale to the conventional range.
	return LAB{L: l * 100, A: a * 100, B: b * 100}
}

// DistanceSq returns the squared Euclidean distance between two LAB colors.
func (l LAB) DistanceSq(o LAB) float64 {
	dl := l.L - o.L
	da := l.A - o.A
	db := l.B - o.B
	return dl*dl + da*da + db*db
}
