// Package capture turns rendered frames into image files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// Supported output formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// FromPixels wraps RGBA pixels read back from OpenGL, whose rows run bottom
// to top, in a top-down image.
func FromPixels(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture: invalid size %dx%d", width, height)
	}
	stride := width * 4
	if len(pixels) < stride*height {
		return nil, fmt.Errorf("capture: have %d bytes, need %d", len(pixels), stride*height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*stride : (height-y)*stride]
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], src)
	}
	return img, nil
}

// Downsample shrinks img by an integer factor with Catmull-Rom filtering.
// Alpha is premultiplied during filtering so translucent edges keep their
// color.
func Downsample(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx()/factor, b.Dy()/factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	result := image.NewNRGBA(dst.Bounds())
	draw.Draw(result, result.Bounds(), dst, image.Point{}, draw.Src)
	return result
}

// FormatOf returns the output format implied by path's extension.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatPNG, FormatWebP, FormatTGA:
		return ext, nil
	default:
		return "", fmt.Errorf("capture: unsupported image extension %q", filepath.Ext(path))
	}
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("capture: unsupported format %q", format)
	}
}

// Save writes img to path, choosing the encoder from the extension and
// creating parent directories.
func Save(path string, img image.Image) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return f.Close()
}

// NextPath returns a timestamped file name in dir for the given format.
func NextPath(dir, format string, now time.Time) string {
	name := fmt.Sprintf("shadowview-%s.%s", now.Format("20060102-150405.000"), format)
	return filepath.Join(dir, name)
}
