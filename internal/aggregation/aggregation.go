// Package aggregation folds undersized regions into the color that
// surrounds them.
package aggregation

import (
	"image"

	"github.com/maax3v3/colorreduce/internal/color"
	"github.com/maax3v3/colorreduce/internal/grid"
	"github.com/maax3v3/colorreduce/internal/zone"
)

// Report summarizes one consolidation pass.
type Report struct {
	Regions       int // regions in the labeling
	Candidates    int // regions smaller than the threshold
	Merged        int // candidates that took a neighbor's color
	Unmerged      int // candidates with no differently-labeled neighbor
	PixelsChanged int

	LargestMergedSize     int
	LargestMergedCentroid image.Point
}

// Consolidate returns the final per-pixel colors after one pass of
// small-region merging.
//
// Every region with fewer than threshold pixels is recolored with the most
// frequent simplified color among the pixels that are 4-adjacent to it but
// carry another label. The full RGBA value is copied, alpha included.
// A region with no such neighbors keeps its color.
//
// Votes are counted by visiting the region's pixels in raster order and
// each pixel's neighbors left, right, up, down. On equal counts the color
// seen first in that order wins. Votes read only simplified, so the order
// in which regions are processed does not matter and a region that merges
// does not influence its neighbors in the same pass.
func Consolidate(simplified *grid.Grid, labels *zone.Labels, threshold int) ([]color.RGBA, Report) {
	final := make([]color.RGBA, len(simplified.Pix))
	copy(final, simplified.Pix)

	rep := Report{Regions: labels.Count()}
	w, h := simplified.Width, simplified.Height
	votes := newTally()

	for _, r := range labels.SmallRegions(threshold) {
		rep.Candidates++
		votes.reset()

		for _, idx := range r.Pixels {
			x, y := idx%w, idx/w
			if x > 0 {
				votes.observe(labels, simplified, idx-1, r.Label)
			}
			if x < w-1 {
				votes.observe(labels, simplified, idx+1, r.Label)
			}
			if y > 0 {
				votes.observe(labels, simplified, idx-w, r.Label)
			}
			if y < h-1 {
				votes.observe(labels, simplified, idx+w, r.Label)
			}
		}

		winner, ok := votes.winner()
		if !ok {
			rep.Unmerged++
			continue
		}
		for _, idx := range r.Pixels {
			final[idx] = winner
		}
		rep.Merged++
		rep.PixelsChanged += r.Size()
		if r.Size() > rep.LargestMergedSize {
			rep.LargestMergedSize = r.Size()
			rep.LargestMergedCentroid = r.Centroid(w)
		}
	}

	return final, rep
}

// tally counts colors and remembers the order they were first seen in.
type tally struct {
	index  map[color.RGBA]int
	colors []color.RGBA
	counts []int
}

func newTally() *tally {
	return &tally{index: make(map[color.RGBA]int)}
}

func (t *tally) reset() {
	clear(t.index)
	t.colors = t.colors[:0]
	t.counts = t.counts[:0]
}

// observe records the neighbor at idx if it belongs to another region.
func (t *tally) observe(labels *zone.Labels, simplified *grid.Grid, idx int, own uint32) {
	if labels.IDs[idx] == own {
		return
	}
	c := simplified.Pix[idx]
	if i, ok := t.index[c]; ok {
		t.counts[i]++
		return
	}
	t.index[c] = len(t.colors)
	t.colors = append(t.colors, c)
	t.counts = append(t.counts, 1)
}

// winner returns the most counted color, preferring the earliest seen.
func (t *tally) winner() (color.RGBA, bool) {
	best := -1
	for i, n := range t.counts {
		if best < 0 || n > t.counts[best] {
			best = i
		}
	}
	if best < 0 {
		return color.RGBA{}, false
	}
	return t.colors[best], true
}
