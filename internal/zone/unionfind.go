package zone

import "github.com/maax3v3/colorreduce/internal/grid"

// DisjointSet is an array-backed union-find over the integers [0, n).
// Find compresses paths iteratively, so arbitrarily long chains cannot
// exhaust the stack. Union keeps the smaller element as the root.
type DisjointSet struct {
	parent []uint32
}

// NewDisjointSet returns n singleton sets.
func NewDisjointSet(n int) *DisjointSet {
	parent := make([]uint32, n)
	for i := range parent {
		parent[i] = uint32(i)
	}
	return &DisjointSet{parent: parent}
}

// Find returns the root of x's set.
func (d *DisjointSet) Find(x uint32) uint32 {
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		next := d.parent[x]
		d.parent[x] = root
		x = next
	}
	return root
}

// Union merges the sets containing x and y.
func (d *DisjointSet) Union(x, y uint32) {
	rx, ry := d.Find(x), d.Find(y)
	switch {
	case rx < ry:
		d.parent[ry] = rx
	case ry < rx:
		d.parent[rx] = ry
	}
}

// UnionFind labels regions with the classic two-pass algorithm. The first
// raster pass looks only at the left and up neighbors: a matching neighbor
// donates the smaller of their labels and the two labels are recorded as
// equivalent; otherwise the pixel gets a fresh label. The second pass
// resolves each label to its root and tallies sizes per root.
//
// Root labels are the smallest provisional label of each region, so they
// are not dense.
func UnionFind(g *grid.Grid) *Labels {
	w, h := g.Width, g.Height
	ids := make([]uint32, w*h)
	// A raster scan issues at most one fresh label per pixel.
	ds := NewDisjointSet(w*h + 1)
	next := uint32(1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			c := g.Pix[idx]

			var left, up uint32
			if x > 0 && g.Pix[idx-1] == c {
				left = ids[idx-1]
			}
			if y > 0 && g.Pix[idx-w] == c {
				up = ids[idx-w]
			}

			switch {
			case left == 0 && up == 0:
				ids[idx] = next
				next++
			case left == 0:
				ids[idx] = up
			case up == 0:
				ids[idx] = left
			default:
				ids[idx] = min(left, up)
				ds.Union(left, up)
			}
		}
	}

	sizes := make([]int, next)
	for idx, id := range ids {
		root := ds.Find(id)
		ids[idx] = root
		sizes[root]++
	}

	return &Labels{Width: w, Height: h, IDs: ids, Sizes: sizes}
}
