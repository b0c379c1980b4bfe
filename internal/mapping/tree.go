package mapping

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/maax3v3/colorreduce/internal/color"
)

// TreeMatcher answers nearest-color queries with a k-d tree over raw RGB
// coordinates. It is faster than LabMatcher on large palettes but it is not
// equivalent: distances are measured in RGB rather than CIELAB, and among
// equidistant entries the tree decides which one wins, not palette order.
type TreeMatcher struct {
	tree *kdtree.Tree
}

// NewTreeMatcher indexes a copy of palette.
func NewTreeMatcher(palette []color.RGBA) *TreeMatcher {
	if len(palette) == 0 {
		return &TreeMatcher{}
	}
	pts := make(rgbPoints, len(palette))
	for i, c := range palette {
		pts[i] = newRGBPoint(c)
	}
	return &TreeMatcher{tree: kdtree.New(pts, false)}
}

// Nearest implements Matcher.
func (m *TreeMatcher) Nearest(c color.RGBA) color.RGBA {
	if m.tree == nil || m.tree.Root == nil {
		return c
	}
	got, _ := m.tree.Nearest(newRGBPoint(c))
	if got == nil {
		return c
	}
	return got.(rgbPoint).c.WithAlpha(c.A)
}

// rgbPoint is a palette entry placed in RGB space.
type rgbPoint struct {
	coord [3]float64
	c     color.RGBA
}

func newRGBPoint(c color.RGBA) rgbPoint {
	return rgbPoint{
		coord: [3]float64{float64(c.R), float64(c.G), float64(c.B)},
		c:     c,
	}
}

func (p rgbPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(rgbPoint)
	return p.coord[d] - q.coord[d]
}

func (p rgbPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p rgbPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(rgbPoint)
	var sum float64
	for i := range p.coord {
		d := p.coord[i] - q.coord[i]
		sum += d * d
	}
	return sum
}

type rgbPoints []rgbPoint

func (p rgbPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p rgbPoints) Len() int                              { return len(p) }
func (p rgbPoints) Pivot(d kdtree.Dim) int                { return rgbPlane{Dim: d, rgbPoints: p}.Pivot() }
func (p rgbPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// rgbPlane sorts points along one dimension for tree construction.
type rgbPlane struct {
	kdtree.Dim
	rgbPoints
}

func (p rgbPlane) Less(i, j int) bool {
	return p.rgbPoints[i].coord[p.Dim] < p.rgbPoints[j].coord[p.Dim]
}
func (p rgbPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p rgbPlane) Slice(start, end int) kdtree.SortSlicer {
	p.rgbPoints = p.rgbPoints[start:end]
	return p
}
func (p rgbPlane) Swap(i, j int) {
	p.rgbPoints[i], p.rgbPoints[j] = p.rgbPoints[j], p.rgbPoints[i]
}
