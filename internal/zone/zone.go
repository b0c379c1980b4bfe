// Package zone partitions a mapped pixel grid into maximal 4-connected
// regions of identical color.
//
// Two pixels are "the same color" only if all four channels match, so
// pixels that mapped to the same palette entry but carry different alpha
// fall into different regions.
package zone

import (
	"fmt"
	"image"

	"github.com/maax3v3/colorreduce/internal/grid"
)

// Labeling strategies accepted by Strategy.
const (
	StrategyUnionFind = "unionfind" // Two-pass raster scan with a disjoint set.
	StrategyFloodFill = "floodfill" // Raster scan with BFS expansion.
)

// Labels assigns a region label to every pixel of a grid.
type Labels struct {
	Width, Height int
	IDs           []uint32 // row-major, never 0 once labeling completes
	Sizes         []int    // pixel count per label; unused labels and slot 0 are 0
}

// At returns the label at (x, y).
func (l *Labels) At(x, y int) uint32 {
	return l.IDs[y*l.Width+x]
}

// Count returns the number of regions.
func (l *Labels) Count() int {
	n := 0
	for _, s := range l.Sizes {
		if s > 0 {
			n++
		}
	}
	return n
}

// Region is one labeled region.
type Region struct {
	Label  uint32
	Pixels []int // pixel indices in raster order
}

// Size returns the number of pixels in the region.
func (r *Region) Size() int {
	return len(r.Pixels)
}

// Centroid returns the geometric center of the region in a grid of the
// given width.
func (r *Region) Centroid(width int) image.Point {
	if len(r.Pixels) == 0 || width <= 0 {
		return image.Point{}
	}
	var sx, sy int
	for _, idx := range r.Pixels {
		sx += idx % width
		sy += idx / width
	}
	return image.Point{
		X: sx / len(r.Pixels),
		Y: sy / len(r.Pixels),
	}
}

// SmallRegions groups the pixel indices of every region with fewer than
// threshold pixels. Regions come back in ascending label order and each
// region's pixels in raster order.
func (l *Labels) SmallRegions(threshold int) []Region {
	return l.collect(func(size int) bool { return size < threshold })
}

func (l *Labels) collect(keep func(size int) bool) []Region {
	slot := make([]int, len(l.Sizes))
	var regions []Region
	for id, size := range l.Sizes {
		slot[id] = -1
		if size == 0 || !keep(size) {
			continue
		}
		slot[id] = len(regions)
		regions = append(regions, Region{
			Label:  uint32(id),
			Pixels: make([]int, 0, size),
		})
	}
	if len(regions) == 0 {
		return nil
	}
	for idx, id := range l.IDs {
		if s := slot[id]; s >= 0 {
			regions[s].Pixels = append(regions[s].Pixels, idx)
		}
	}
	return regions
}

// Partition describes the labeling independently of the label values:
// entry i is the smallest pixel index in pixel i's region. Two labelings
// describe the same partition exactly when their Partitions are equal.
func (l *Labels) Partition() []int {
	first := make(map[uint32]int, len(l.Sizes))
	out := make([]int, len(l.IDs))
	for idx, id := range l.IDs {
		rep, ok := first[id]
		if !ok {
			rep = idx
			first[id] = idx
		}
		out[idx] = rep
	}
	return out
}

// Func labels a grid.
type Func func(g *grid.Grid) *Labels

// Strategy returns the labeling function with the given name. An empty name
// selects union-find.
func Strategy(name string) (Func, error) {
	switch name {
	case StrategyUnionFind, "":
		return UnionFind, nil
	case StrategyFloodFill:
		return FloodFill, nil
	default:
		return nil, fmt.Errorf("unknown labeler %q (supported: %s, %s)",
			name, StrategyUnionFind, StrategyFloodFill)
	}
}
