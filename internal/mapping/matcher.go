package mapping

import (
	"fmt"

	"github.com/maax3v3/colorreduce/internal/color"
)

// Matcher kinds accepted by New.
const (
	KindLab    = "lab"    // Brute-force nearest color in CIELAB.
	KindKDTree = "kdtree" // Approximate nearest color in raw RGB via a k-d tree.
)

// Matcher finds the palette color closest to a pixel.
type Matcher interface {
	// Nearest returns the RGB of the chosen palette entry with the alpha
	// of c. With an empty palette c is returned unchanged.
	Nearest(c color.RGBA) color.RGBA
}

// New builds the Matcher named by kind over palette.
func New(kind string, palette []color.RGBA) (Matcher, error) {
	switch kind {
	case KindLab, "":
		return NewLabMatcher(palette), nil
	case KindKDTree:
		return NewTreeMatcher(palette), nil
	default:
		return nil, fmt.Errorf("unknown matcher %q (supported: %s, %s)", kind, KindLab, KindKDTree)
	}
}

// LabMatcher compares every palette entry in CIELAB space. Equidistant
// entries resolve to the one that comes first in the palette.
type LabMatcher struct {
	palette []color.RGBA
	labs    []color.LAB
}

// NewLabMatcher converts the palette to CIELAB once up front.
func NewLabMatcher(palette []color.RGBA) *LabMatcher {
	m := &LabMatcher{
		palette: append([]color.RGBA(nil), palette...),
		labs:    make([]color.LAB, len(palette)),
	}
	for i, p := range palette {
		m.labs[i] = p.ToLAB()
	}
	return m
}

// Nearest implements Matcher.
func (m *LabMatcher) Nearest(c color.RGBA) color.RGBA {
	i := m.Index(c)
	if i < 0 {
		return c
	}
	return m.palette[i].WithAlpha(c.A)
}

// Index returns the position of the palette entry nearest to c, or -1 for
// an empty palette.
func (m *LabMatcher) Index(c color.RGBA) int {
	if len(m.palette) == 0 {
		return -1
	}
	lab := c.ToLAB()
	best := 0
	bestDist := lab.DistanceSq(m.labs[0])
	for i := 1; i < len(m.labs); i++ {
		if d := lab.DistanceSq(m.labs[i]); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
