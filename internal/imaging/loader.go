package imaging

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format names an output encoding.
type Format string

// Supported output formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	WEBP Format = "webp"
)

// JPEGQuality is used for every JPEG written by Encode.
const JPEGQuality = 95

// decodable lists the input extensions Load accepts.
var decodable = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Load reads an image file from disk. Supports PNG, JPEG, GIF, BMP, TIFF
// and WEBP. JPEG EXIF orientation is applied.
// The path is normalized: ~ is expanded to the user's home directory,
// and relative paths are resolved to absolute.
func Load(path string) (image.Image, error) {
	path = ExpandPath(path)
	ext := strings.ToLower(filepath.Ext(path))
	if !decodable[ext] {
		return nil, fmt.Errorf("unsupported image format %q (supported: png, jpg, jpeg, gif, bmp, tif, tiff, webp)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads an encoded image of any registered format from r.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Save writes img to disk, picking the encoding from the file extension.
// The path is normalized: ~ is expanded and relative paths are resolved.
func Save(path string, img image.Image) error {
	path = ExpandPath(path)
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes img to w in the given format. JPEG has no alpha channel,
// so transparent pixels are flattened by the encoder.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case JPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality))
	case WEBP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}

// ParseFormat maps a format name such as "png", "jpg" or "webp" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png", "":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "webp":
		return WEBP, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: png, jpg, jpeg, webp)", name)
	}
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("output path %q has no extension", path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of a format.
func (f Format) ContentType() string {
	switch f {
	case JPEG:
		return "image/jpeg"
	case WEBP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// ExpandPath normalizes a file path by expanding ~ to the user's home
// directory and resolving relative paths to absolute.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ and ~/ to home directory
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	// On Windows, also handle ~\
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "~\\") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	// Resolve relative paths to absolute
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return filepath.Clean(path)
}
