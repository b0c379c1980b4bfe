package zone

import "github.com/maax3v3/colorreduce/internal/grid"

// FloodFill labels regions by scanning in raster order and expanding each
// unlabeled pixel breadth-first over 4-connected neighbors of the same color.
// Labels are dense, starting at 1, in order of each region's first pixel.
func FloodFill(g *grid.Grid) *Labels {
	w, h := g.Width, g.Height
	ids := make([]uint32, w*h)
	sizes := []int{0}

	queue := make([]int, 0, 1024)
	next := uint32(1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if ids[idx] != 0 {
				continue
			}
			c := g.Pix[idx]
			label := next
			next++
			ids[idx] = label
			size := 0

			queue = append(queue[:0], idx)
			for head := 0; head < len(queue); head++ {
				cur := queue[head]
				size++
				cx, cy := cur%w, cur/w

				// 4-connected neighbors
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if ids[ni] != 0 || g.Pix[ni] != c {
						continue
					}
					ids[ni] = label
					queue = append(queue, ni)
				}
			}

			sizes = append(sizes, size)
		}
	}

	return &Labels{Width: w, Height: h, IDs: ids, Sizes: sizes}
}
