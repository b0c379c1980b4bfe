package zone

import (
	"image"
	"math/rand"
	"testing"

	"github.com/maax3v3/colorreduce/internal/color"
	"github.com/maax3v3/colorreduce/internal/grid"
)

var swatch = map[byte]color.RGBA{
	'A': {R: 255, G: 0, B: 0, A: 255},
	'B': {R: 0, G: 0, B: 255, A: 255},
	'C': {R: 0, G: 255, B: 0, A: 255},
	'a': {R: 255, G: 0, B: 0, A: 128}, // same RGB as A, different alpha
}

// gridFromRows builds a grid from equal-length rows of swatch keys.
func gridFromRows(t *testing.T, rows ...string) *grid.Grid {
	t.Helper()
	g := grid.New(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.Width {
			t.Fatalf("row %d has length %d, want %d", y, len(row), g.Width)
		}
		for x := 0; x < len(row); x++ {
			c, ok := swatch[row[x]]
			if !ok {
				t.Fatalf("unknown swatch %q", row[x])
			}
			g.Set(x, y, c)
		}
	}
	return g
}

var strategies = []struct {
	name string
	fn   func(*grid.Grid) *Labels
}{
	{StrategyFloodFill, FloodFill},
	{StrategyUnionFind, UnionFind},
}

// checkLabels verifies the structural invariants of any labeling of g.
func checkLabels(t *testing.T, g *grid.Grid, l *Labels) {
	t.Helper()
	if len(l.IDs) != g.Len() {
		t.Fatalf("got %d labels for %d pixels", len(l.IDs), g.Len())
	}
	counts := make(map[uint32]int)
	for i, id := range l.IDs {
		if id == 0 {
			t.Fatalf("pixel %d left unlabeled", i)
		}
		counts[id]++
	}
	for id, n := range counts {
		if l.Sizes[id] != n {
			t.Errorf("label %d: Sizes says %d, counted %d", id, l.Sizes[id], n)
		}
	}
	if l.Count() != len(counts) {
		t.Errorf("Count: got %d, want %d", l.Count(), len(counts))
	}
	// Neighbors share a label exactly when they share a color.
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			for _, d := range [2][2]int{{1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx >= g.Width || ny >= g.Height {
					continue
				}
				sameColor := g.At(x, y) == g.At(nx, ny)
				sameLabel := l.At(x, y) == l.At(nx, ny)
				if sameColor != sameLabel {
					t.Fatalf("(%d,%d)-(%d,%d): sameColor=%v sameLabel=%v", x, y, nx, ny, sameColor, sameLabel)
				}
			}
		}
	}
}

func allRegions(l *Labels) []Region {
	return l.collect(func(int) bool { return true })
}

func sizeHistogram(l *Labels) map[int]int {
	out := make(map[int]int)
	for _, s := range l.Sizes {
		if s > 0 {
			out[s]++
		}
	}
	return out
}

func TestLabeling(t *testing.T) {
	tests := []struct {
		name      string
		rows      []string
		wantCount int
		wantSizes map[int]int // size -> number of regions with that size
	}{
		{
			name:      "uniform",
			rows:      []string{"AAAA", "AAAA", "AAAA"},
			wantCount: 1,
			wantSizes: map[int]int{12: 1},
		},
		{
			name:      "diagonal touch is not connected",
			rows:      []string{"AB", "BA"},
			wantCount: 4,
			wantSizes: map[int]int{1: 4},
		},
		{
			name: "diagonal-only blobs stay separate",
			rows: []string{
				"AABBB",
				"AABBB",
				"BBAAB",
				"BBAAB",
			},
			wantCount: 4,
			wantSizes: map[int]int{4: 3, 8: 1},
		},
		{
			name: "U shape needs an equivalence",
			rows: []string{
				"ABA",
				"ABA",
				"AAA",
			},
			wantCount: 2,
			wantSizes: map[int]int{7: 1, 2: 1},
		},
		{
			name: "staircase merges late",
			rows: []string{
				"BBBBA",
				"BBBAA",
				"BBAAB",
				"AAABB",
			},
			wantCount: 3,
		},
		{
			name:      "alpha splits regions",
			rows:      []string{"AAaa", "AAaa"},
			wantCount: 2,
			wantSizes: map[int]int{4: 2},
		},
		{
			name:      "single pixel",
			rows:      []string{"C"},
			wantCount: 1,
			wantSizes: map[int]int{1: 1},
		},
	}
	for _, tt := range tests {
		for _, s := range strategies {
			t.Run(tt.name+"/"+s.name, func(t *testing.T) {
				g := gridFromRows(t, tt.rows...)
				l := s.fn(g)
				checkLabels(t, g, l)
				if l.Count() != tt.wantCount {
					t.Errorf("Count: got %d, want %d", l.Count(), tt.wantCount)
				}
				if tt.wantSizes != nil {
					got := sizeHistogram(l)
					for size, n := range tt.wantSizes {
						if got[size] != n {
							t.Errorf("regions of size %d: got %d, want %d", size, got[size], n)
						}
					}
				}
			})
		}
	}
}

func TestLabeling_DiagonalBlobsPixelLevel(t *testing.T) {
	g := gridFromRows(t,
		"AAB",
		"AAB",
		"BBA",
	)
	for _, s := range strategies {
		t.Run(s.name, func(t *testing.T) {
			l := s.fn(g)
			if l.At(0, 0) == l.At(2, 2) {
				t.Error("blobs touching only at a corner share a label")
			}
			if l.At(0, 0) != l.At(1, 1) {
				t.Error("2x2 blob split apart")
			}
		})
	}
}

func TestLabeling_StrategiesAgree(t *testing.T) {
	palette := []color.RGBA{swatch['A'], swatch['B'], swatch['C']}
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		w, h := 1+rng.Intn(40), 1+rng.Intn(40)
		g := grid.New(w, h)
		for i := range g.Pix {
			g.Pix[i] = palette[rng.Intn(len(palette))]
		}

		flood := FloodFill(g)
		union := UnionFind(g)
		checkLabels(t, g, flood)
		checkLabels(t, g, union)

		fp, up := flood.Partition(), union.Partition()
		for i := range fp {
			if fp[i] != up[i] {
				t.Fatalf("seed %d (%dx%d): partitions differ at pixel %d", seed, w, h, i)
			}
		}
	}
}

func TestFloodFill_DenseLabelsFromOne(t *testing.T) {
	g := gridFromRows(t, "ABC", "CBA")
	l := FloodFill(g)
	seen := make(map[uint32]bool)
	for _, id := range l.IDs {
		seen[id] = true
	}
	for id := uint32(1); id <= uint32(len(seen)); id++ {
		if !seen[id] {
			t.Errorf("label %d missing; labels should be dense from 1", id)
		}
	}
	if l.At(0, 0) != 1 {
		t.Errorf("first pixel label: got %d, want 1", l.At(0, 0))
	}
}

func TestUnionFind_RootIsSmallestLabel(t *testing.T) {
	// The right arm of the U gets label 3 in the first pass and is later
	// found equivalent to label 1.
	g := gridFromRows(t, "ABA", "AAA")
	l := UnionFind(g)
	for i, id := range l.IDs {
		if g.Pix[i] == swatch['A'] && id != 1 {
			t.Errorf("pixel %d: label %d, want 1", i, id)
		}
	}
}

func TestDisjointSet(t *testing.T) {
	ds := NewDisjointSet(6)
	ds.Union(4, 5)
	ds.Union(2, 4)
	ds.Union(1, 3)

	if ds.Find(5) != 2 || ds.Find(4) != 2 || ds.Find(2) != 2 {
		t.Errorf("{2,4,5} should have root 2")
	}
	if ds.Find(3) != 1 {
		t.Errorf("{1,3} should have root 1, got %d", ds.Find(3))
	}
	if ds.Find(0) != 0 {
		t.Errorf("0 should be a singleton")
	}
	ds.Union(5, 5)
	if ds.Find(5) != 2 {
		t.Errorf("self-union changed the root")
	}
}

func TestDisjointSet_DeepChainIsIterative(t *testing.T) {
	const n = 1 << 20
	ds := NewDisjointSet(n)
	// Build a degenerate chain n-1 -> n-2 -> ... -> 0 by hand.
	for i := 1; i < n; i++ {
		ds.parent[i] = uint32(i - 1)
	}
	if got := ds.Find(n - 1); got != 0 {
		t.Fatalf("root: got %d, want 0", got)
	}
	for i := 0; i < n; i++ {
		if ds.parent[i] != 0 {
			t.Fatalf("node %d not compressed: parent %d", i, ds.parent[i])
		}
	}
}

func TestRegions(t *testing.T) {
	g := gridFromRows(t,
		"AAB",
		"BAB",
	)
	l := FloodFill(g)
	regions := allRegions(l)

	if len(regions) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(regions))
	}
	for i := 1; i < len(regions); i++ {
		if regions[i-1].Label >= regions[i].Label {
			t.Errorf("regions not in ascending label order")
		}
	}
	want := [][]int{{0, 1, 4}, {2, 5}, {3}}
	for i, r := range regions {
		if r.Size() != len(want[i]) {
			t.Fatalf("region %d: size %d, want %d", i, r.Size(), len(want[i]))
		}
		for j := range want[i] {
			if r.Pixels[j] != want[i][j] {
				t.Errorf("region %d pixel %d: got %d, want %d", i, j, r.Pixels[j], want[i][j])
			}
		}
	}
}

func TestCentroid(t *testing.T) {
	tests := []struct {
		name   string
		pixels []int
		width  int
		want   image.Point
	}{
		{"empty region", nil, 5, image.Point{}},
		{"single pixel", []int{7}, 5, image.Point{2, 1}},
		{"symmetric square", []int{0, 2, 10, 12}, 5, image.Point{1, 1}},
		{"horizontal line", []int{0, 1, 2, 3, 4}, 5, image.Point{2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Region{Label: 1, Pixels: tt.pixels}
			if got := r.Centroid(tt.width); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategy(t *testing.T) {
	g := gridFromRows(t, "AB")
	for _, name := range []string{"", StrategyUnionFind, StrategyFloodFill} {
		fn, err := Strategy(name)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if l := fn(g); l.Count() != 2 {
			t.Errorf("%q: Count %d, want 2", name, l.Count())
		}
	}
	if _, err := Strategy("twopass"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestLabeling_EmptyGrid(t *testing.T) {
	for _, s := range strategies {
		l := s.fn(grid.New(0, 0))
		if l.Count() != 0 || len(allRegions(l)) != 0 {
			t.Errorf("%s: expected no regions", s.name)
		}
	}
}

func TestSmallRegions(t *testing.T) {
	g := gridFromRows(t,
		"AAAB",
		"AACA",
	)
	l := UnionFind(g)

	small := l.SmallRegions(2)
	if len(small) != 3 {
		t.Fatalf("expected 3 single-pixel regions, got %d", len(small))
	}
	for _, r := range small {
		if r.Size() != 1 {
			t.Errorf("region %d has size %d", r.Label, r.Size())
		}
	}
	if got := l.SmallRegions(1); got != nil {
		t.Errorf("threshold 1 should select nothing, got %d regions", len(got))
	}
	if got := l.SmallRegions(100); len(got) != l.Count() {
		t.Errorf("large threshold should select all %d regions, got %d", l.Count(), len(got))
	}
}
