// Package export encodes finished images and picks numbered output paths.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("export: unknown format")

// Format is an output image encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// Formats lists the supported encodings.
func Formats() []Format { return []Format{PNG, BMP, TIFF} }

// ParseFormat accepts a format name or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext is the file extension used for the format.
func (f Format) Ext() string { return string(f) }

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Scale enlarges img by an integer factor with nearest-neighbour sampling so
// cell edges stay sharp. Factors below 2 return img unchanged.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor)
}

// NextPath returns dir/NNNNN.ext numbered one past the highest numbered file
// with that extension in dir, starting at 00001. The directory is created if
// missing. Files whose base name is not a number are ignored.
func NextPath(dir, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("export: list %s: %w", dir, err)
	}
	last := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		dot := strings.LastIndexByte(name, '.')
		if dot < 0 || !strings.EqualFold(name[dot+1:], ext) {
			continue
		}
		n, err := strconv.Atoi(name[:dot])
		if err != nil {
			continue
		}
		last = max(last, n)
	}
	return filepath.Join(dir, fmt.Sprintf("%05d.%s", last+1, ext)), nil
}

// WriteFile scales img, encodes it as f and stores it at the next numbered
// path in dir. It returns the path written.
func WriteFile(dir string, img image.Image, f Format, scale int) (string, error) {
	path, err := NextPath(dir, f.Ext())
	if err != nil {
		return "", err
	}
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if err := Encode(out, Scale(img, scale), f); err != nil {
		out.Close()
		return "", fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}
