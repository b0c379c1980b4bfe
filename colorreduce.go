// Package colorreduce posterizes images onto a fixed palette and cleans up
// the speckle that quantization leaves behind.
//
// Reduction runs three stages over one image:
//
//  1. every pixel is mapped to its nearest palette color in CIELAB,
//     keeping its alpha;
//  2. the mapped pixels are split into maximal 4-connected regions of
//     identical color;
//  3. every region smaller than the area threshold is repainted with the
//     most frequent color found just outside its boundary.
//
// Merging is a single pass. A small region whose only neighbors are other
// small regions takes their pre-merge color and may still look like noise
// afterwards; run Reduce again on the output if that matters.
//
// Usage as a library:
//
//	img, _ := colorreduce.LoadImage("photo.png")
//	opts := colorreduce.DefaultOptions()
//	opts.Palette, _ = colorreduce.ParsePalette("#000,#fff,#c33,#36c")
//	result, _ := colorreduce.Reduce(img, opts)
//	colorreduce.SaveImage("poster.png", result)
//
// Or use the file-based convenience:
//
//	err := colorreduce.ReduceFile("photo.png", "poster.png", opts)
package colorreduce

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/maax3v3/colorreduce/internal/aggregation"
	"github.com/maax3v3/colorreduce/internal/color"
	"github.com/maax3v3/colorreduce/internal/grid"
	"github.com/maax3v3/colorreduce/internal/imaging"
	"github.com/maax3v3/colorreduce/internal/mapping"
	"github.com/maax3v3/colorreduce/internal/zone"
)

// Matcher names.
const (
	MatcherLab    = mapping.KindLab    // Exact nearest color in CIELAB (default).
	MatcherKDTree = mapping.KindKDTree // Faster, approximate nearest color in raw RGB.
)

// Labeler names. Both produce the same regions.
const (
	LabelerUnionFind = zone.StrategyUnionFind // Two-pass union-find (default).
	LabelerFloodFill = zone.StrategyFloodFill // Breadth-first flood fill.
)

// DefaultAreaThreshold is the threshold used by DefaultOptions.
const DefaultAreaThreshold = 10

var (
	// ErrEmptyPalette is returned before any pixel is touched when
	// Options.Palette has no entries.
	ErrEmptyPalette = errors.New("palette is empty")

	// ErrUnknownMatcher is returned for an unrecognized Options.Matcher.
	ErrUnknownMatcher = errors.New("unknown matcher")

	// ErrUnknownLabeler is returned for an unrecognized Options.Labeler.
	ErrUnknownLabeler = errors.New("unknown labeler")
)

// Options configures a reduction.
type Options struct {
	// Palette is the ordered list of output colors. Only R, G and B are
	// used. Order breaks ties between equidistant entries and duplicates
	// are allowed. Required.
	Palette []Color

	// AreaThreshold is the smallest region size, in pixels, that survives
	// untouched. Regions with strictly fewer pixels are merged into their
	// surroundings. Values <= 1 disable merging.
	// Default: 10.
	AreaThreshold int

	// Matcher selects the nearest-color search: "lab" or "kdtree".
	// The kdtree matcher measures distance in RGB and can pick different
	// colors than "lab"; it trades accuracy for speed.
	// Default: "lab".
	Matcher string

	// Labeler selects the region labeling algorithm: "unionfind" or
	// "floodfill". The output does not depend on this choice.
	// Default: "unionfind".
	Labeler string

	// Workers is the number of goroutines used for color mapping.
	// 0 means runtime.NumCPU().
	Workers int
}

// Color represents an RGBA color with 8-bit non-premultiplied components.
type Color struct {
	R, G, B, A uint8
}

// Stats describes what a reduction did.
type Stats struct {
	Width, Height int
	Regions       int // regions after color mapping
	SmallRegions  int // regions below the area threshold
	Merged        int // small regions repainted with a neighbor color
	Unmerged      int // small regions with no neighbors to take a color from
	PixelsChanged int // pixels repainted by merging

	LargestMergedSize int
	LargestMergedAt   image.Point // centroid of the largest merged region
}

// DefaultOptions returns Options with sensible defaults and no palette.
func DefaultOptions() Options {
	return Options{
		AreaThreshold: DefaultAreaThreshold,
		Matcher:       MatcherLab,
		Labeler:       LabelerUnionFind,
	}
}

// ParseHexColor parses a hex color string like "#000", "#FF00FF".
func ParseHexColor(hex string) (Color, error) {
	c, err := color.ParseHex(hex)
	if err != nil {
		return Color{}, err
	}
	return fromInternal(c), nil
}

// ParsePalette parses a comma-separated list of hex colors.
func ParsePalette(list string) ([]Color, error) {
	p, err := color.ParsePalette(list)
	if err != nil {
		return nil, err
	}
	return paletteFromInternal(p), nil
}

// LoadPalette reads a palette file with one hex color per line.
func LoadPalette(path string) ([]Color, error) {
	f, err := os.Open(imaging.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("opening palette: %w", err)
	}
	defer f.Close()

	p, err := color.ReadPalette(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return paletteFromInternal(p), nil
}

// LoadImage reads an image from disk. Supports PNG, JPEG, GIF, BMP, TIFF
// and WEBP.
func LoadImage(path string) (image.Image, error) {
	return imaging.Load(path)
}

// SaveImage writes an image to disk as PNG, JPEG or WEBP depending on the
// file extension.
func SaveImage(path string, img image.Image) error {
	return imaging.Save(path, img)
}

// Reduce maps img onto the palette and merges small regions. The result has
// the same size as img, with its origin at (0, 0).
func Reduce(img image.Image, opts Options) (*image.NRGBA, error) {
	out, _, err := ReduceWithStats(img, opts)
	return out, err
}

// ReduceWithStats is Reduce that also reports what happened.
func ReduceWithStats(img image.Image, opts Options) (*image.NRGBA, Stats, error) {
	if img == nil {
		return nil, Stats{}, fmt.Errorf("input image is nil")
	}
	st, err := newStages(opts)
	if err != nil {
		return nil, Stats{}, err
	}
	final, stats := st.run(grid.FromImage(img), opts)
	return grid.Assemble(stats.Width, stats.Height, final), stats, nil
}

// ReduceBuffer runs the reduction over a raw RGBA8 buffer of length
// 4*width*height (non-premultiplied, row-major) and returns a new buffer
// of the same layout. A wrong buffer length is a caller error and is not
// checked.
func ReduceBuffer(width, height int, pix []uint8, opts Options) ([]uint8, error) {
	st, err := newStages(opts)
	if err != nil {
		return nil, err
	}
	final, _ := st.run(grid.FromBytes(width, height, pix), opts)
	out := &grid.Grid{Width: width, Height: height, Pix: final}
	return out.Bytes(), nil
}

// ReduceFile is a convenience that loads an image from inPath, reduces it,
// and saves the result to outPath in the format given by its extension.
func ReduceFile(inPath, outPath string, opts Options) error {
	img, err := LoadImage(inPath)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}

	result, err := Reduce(img, opts)
	if err != nil {
		return fmt.Errorf("reducing: %w", err)
	}

	if err := SaveImage(outPath, result); err != nil {
		return fmt.Errorf("saving output: %w", err)
	}

	return nil
}

// stages holds the validated per-call collaborators.
type stages struct {
	matcher mapping.Matcher
	label   zone.Func
}

// newStages validates opts. It is the only place a reduction can fail.
func newStages(opts Options) (*stages, error) {
	if len(opts.Palette) == 0 {
		return nil, ErrEmptyPalette
	}
	m, err := mapping.New(opts.Matcher, paletteToInternal(opts.Palette))
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownMatcher, opts.Matcher)
	}
	label, err := zone.Strategy(opts.Labeler)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownLabeler, opts.Labeler)
	}
	return &stages{matcher: m, label: label}, nil
}

// run executes mapping, labeling and consolidation in order. Each stage
// finishes before the next starts.
func (s *stages) run(src *grid.Grid, opts Options) ([]color.RGBA, Stats) {
	simplified := mapping.Map(src, s.matcher, opts.Workers)

	labels := s.label(simplified)
	final, rep := aggregation.Consolidate(simplified, labels, opts.AreaThreshold)

	return final, Stats{
		Width:             src.Width,
		Height:            src.Height,
		Regions:           rep.Regions,
		SmallRegions:      rep.Candidates,
		Merged:            rep.Merged,
		Unmerged:          rep.Unmerged,
		PixelsChanged:     rep.PixelsChanged,
		LargestMergedSize: rep.LargestMergedSize,
		LargestMergedAt:   rep.LargestMergedCentroid,
	}
}

func fromInternal(c color.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func paletteFromInternal(p []color.RGBA) []Color {
	out := make([]Color, len(p))
	for i, c := range p {
		out[i] = fromInternal(c)
	}
	return out
}

func paletteToInternal(p []Color) []color.RGBA {
	out := make([]color.RGBA, len(p))
	for i, c := range p {
		out[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
	return out
}
