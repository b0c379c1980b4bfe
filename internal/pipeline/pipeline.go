package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/maax3v3/colorreduce"
	"github.com/maax3v3/colorreduce/internal/aggregation"
	"github.com/maax3v3/colorreduce/internal/cli"
	"github.com/maax3v3/colorreduce/internal/color"
	"github.com/maax3v3/colorreduce/internal/grid"
	"github.com/maax3v3/colorreduce/internal/imaging"
	"github.com/maax3v3/colorreduce/internal/mapping"
	"github.com/maax3v3/colorreduce/internal/zone"
)

// Run executes the full colorreduce pipeline with the given configuration.
// Configuration errors match the colorreduce sentinels with errors.Is.
func Run(cfg cli.Config) error {
	if len(cfg.Palette) == 0 {
		return colorreduce.ErrEmptyPalette
	}
	matcher, err := mapping.New(cfg.Matcher, cfg.Palette)
	if err != nil {
		return fmt.Errorf("%w %q", colorreduce.ErrUnknownMatcher, cfg.Matcher)
	}
	label, err := zone.Strategy(cfg.Labeler)
	if err != nil {
		return fmt.Errorf("%w %q", colorreduce.ErrUnknownLabeler, cfg.Labeler)
	}

	// Step 1: Load input image
	fmt.Printf("Loading image: %s\n", cfg.InPath)
	img, err := imaging.Load(cfg.InPath)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	src := grid.FromImage(img)
	fmt.Printf("Image loaded: %dx%d\n", src.Width, src.Height)

	// Step 2: Map pixels onto the palette
	fmt.Printf("Mapping to %d palette colors (matcher=%s): %s\n", len(cfg.Palette), cfg.Matcher, paletteHex(cfg.Palette))
	start := time.Now()
	simplified := mapping.Map(src, matcher, cfg.Workers)
	fmt.Printf("Mapped %d pixels in %s\n", simplified.Len(), time.Since(start).Round(time.Millisecond))

	// Step 3: Label regions
	fmt.Printf("Labeling regions (labeler=%s)...\n", cfg.Labeler)
	start = time.Now()
	labels := label(simplified)
	fmt.Printf("Regions found: %d in %s\n", labels.Count(), time.Since(start).Round(time.Millisecond))

	// Step 4: Merge small regions
	fmt.Printf("Merging regions smaller than %d pixels...\n", cfg.Threshold)
	final, rep := aggregation.Consolidate(simplified, labels, cfg.Threshold)
	printReport(rep, simplified.Len())

	// Step 5: Save output
	fmt.Printf("Saving output: %s\n", cfg.OutPath)
	out := grid.Assemble(simplified.Width, simplified.Height, final)
	if err := imaging.Save(cfg.OutPath, out); err != nil {
		return fmt.Errorf("saving output: %w", err)
	}

	fmt.Println("Done!")
	return nil
}

func paletteHex(palette []color.RGBA) string {
	hex := make([]string, len(palette))
	for i, c := range palette {
		hex[i] = c.Hex()
	}
	return strings.Join(hex, " ")
}

func printReport(rep aggregation.Report, total int) {
	fmt.Printf("Small regions: %d / %d, merged: %d, left alone: %d\n",
		rep.Candidates, rep.Regions, rep.Merged, rep.Unmerged)
	if total > 0 {
		fmt.Printf("Pixels repainted: %d / %d (%.1f%%)\n",
			rep.PixelsChanged, total, float64(rep.PixelsChanged)/float64(total)*100)
	}
	if rep.LargestMergedSize > 0 {
		fmt.Printf("Largest merged region: %d px around (%d,%d)\n",
			rep.LargestMergedSize, rep.LargestMergedCentroid.X, rep.LargestMergedCentroid.Y)
	}
}
