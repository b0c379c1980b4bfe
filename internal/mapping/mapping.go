// Package mapping replaces every pixel with its nearest palette color.
package mapping

import (
	"runtime"
	"sync"

	"github.com/maax3v3/colorreduce/internal/color"
	"github.com/maax3v3/colorreduce/internal/grid"
)

// memoLimit caps the per-band cache of resolved colors.
const memoLimit = 1 << 16

// Map returns a new grid where each pixel's RGB is m's nearest palette
// color and alpha is copied from src.
//
// Rows are split into bands processed by up to workers goroutines
// (runtime.NumCPU() when workers <= 0). Each band writes only its own rows
// and the matcher is shared read-only, so the result does not depend on
// the worker count.
func Map(src *grid.Grid, m Matcher, workers int) *grid.Grid {
	w := src.Width
	out := grid.New(src.Width, src.Height)

	parallelRows(src.Height, workers, func(sy, ey int) {
		memo := make(map[color.RGBA]color.RGBA)
		for i := sy * w; i < ey*w; i++ {
			px := src.Pix[i]
			key := px.WithAlpha(0)
			mapped, ok := memo[key]
			if !ok {
				mapped = m.Nearest(key)
				if len(memo) < memoLimit {
					memo[key] = mapped
				}
			}
			out.Pix[i] = mapped.WithAlpha(px.A)
		}
	})

	return out
}

// parallelRows runs fn across row bands using multiple goroutines and
// returns once every band is done.
func parallelRows(h, workers int, fn func(startY, endY int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		fn(0, h)
		return
	}
	rowsPerWorker := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		startY := worker * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > h {
			endY = h
		}
		if startY >= h {
			break
		}
		wg.Add(1)
		go func(sy, ey int) {
			defer wg.Done()
			fn(sy, ey)
		}(startY, endY)
	}
	wg.Wait()
}
