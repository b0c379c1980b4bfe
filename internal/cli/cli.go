package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/maax3v3/colorreduce/internal/color"
	"github.com/maax3v3/colorreduce/internal/imaging"
	"github.com/maax3v3/colorreduce/internal/mapping"
	"github.com/maax3v3/colorreduce/internal/zone"
)

// Config holds the parsed CLI arguments.
type Config struct {
	InPath    string
	OutPath   string
	Palette   []color.RGBA
	Threshold int
	Matcher   string
	Labeler   string
	Workers   int
}

// Parse parses the process arguments and returns a validated Config.
func Parse() (Config, error) {
	return ParseArgs(os.Args[1:], os.Stderr)
}

// ParseArgs parses args and returns a validated Config. Usage text goes to
// usageOut.
func ParseArgs(args []string, usageOut io.Writer) (Config, error) {
	fs := flag.NewFlagSet("colorreduce", flag.ContinueOnError)
	fs.SetOutput(usageOut)

	inPath := fs.String("in", "", "Path to input image (required, supports PNG, JPEG, GIF, BMP, TIFF, WEBP)")
	outPath := fs.String("out", "", "Path to generated output image (required, .png, .jpg, .jpeg or .webp)")
	paletteList := fs.String("palette", "", "Comma-separated hex palette colors in priority order (e.g. #000,#FFF,#C33)")
	paletteFile := fs.String("palette-file", "", "File with one hex palette color per line")
	threshold := fs.Int("threshold", 10, "Regions with fewer pixels than this are merged into their surroundings")
	matcher := fs.String("matcher", mapping.KindLab, "Nearest color search: lab (exact, CIELAB) or kdtree (approximate, RGB)")
	labeler := fs.String("labeler", zone.StrategyUnionFind, "Region labeling: unionfind or floodfill")
	workers := fs.Int("workers", 0, "Goroutines used for color mapping (0 = number of CPUs)")

	fs.Usage = func() {
		fmt.Fprintf(usageOut, "Usage: colorreduce [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(usageOut, "\nExample:\n  colorreduce --in=photo.png --out=poster.png --palette=#000,#FFF,#C33,#36C --threshold=25\n")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *inPath == "" {
		return Config{}, fmt.Errorf("--in is required")
	}
	if *outPath == "" {
		return Config{}, fmt.Errorf("--out is required")
	}
	if _, err := imaging.FormatFromPath(*outPath); err != nil {
		return Config{}, fmt.Errorf("--out must be a .png, .jpg, .jpeg or .webp file, got %q", strings.ToLower(filepath.Ext(*outPath)))
	}
	if *threshold <= 0 {
		return Config{}, fmt.Errorf("--threshold must be > 0, got %d", *threshold)
	}
	if *workers < 0 {
		return Config{}, fmt.Errorf("--workers must be >= 0, got %d", *workers)
	}
	if *matcher != mapping.KindLab && *matcher != mapping.KindKDTree {
		return Config{}, fmt.Errorf("--matcher must be %s or %s, got %q", mapping.KindLab, mapping.KindKDTree, *matcher)
	}
	if _, err := zone.Strategy(*labeler); err != nil || *labeler == "" {
		return Config{}, fmt.Errorf("--labeler must be %s or %s, got %q", zone.StrategyUnionFind, zone.StrategyFloodFill, *labeler)
	}

	var palette []color.RGBA
	if *paletteFile != "" {
		p, err := readPaletteFile(*paletteFile)
		if err != nil {
			return Config{}, fmt.Errorf("--palette-file: %w", err)
		}
		palette = append(palette, p...)
	}
	if *paletteList != "" {
		p, err := color.ParsePalette(*paletteList)
		if err != nil {
			return Config{}, fmt.Errorf("--palette: %w", err)
		}
		palette = append(palette, p...)
	}
	if len(palette) == 0 {
		return Config{}, fmt.Errorf("a palette is required (--palette or --palette-file)")
	}

	return Config{
		InPath:    *inPath,
		OutPath:   *outPath,
		Palette:   palette,
		Threshold: *threshold,
		Matcher:   *matcher,
		Labeler:   *labeler,
		Workers:   *workers,
	}, nil
}

func readPaletteFile(path string) ([]color.RGBA, error) {
	f, err := os.Open(imaging.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return color.ReadPalette(f)
}
