// Package normalize turns arbitrary receipt uploads into a canonical
// raster suitable for OCR: upright, grayscale, contrast-stretched,
// sharpened, width-bounded, PNG-encoded.
package normalize

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	fitz "github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// DefaultMaxWidth bounds the normalized raster width. Receipts wider
// than this carry no extra glyph information for OCR.
const DefaultMaxWidth = 1800

// ConstrainedMaxWidth is the lower ceiling used under memory-constrained
// deployment profiles.
const ConstrainedMaxWidth = 1200

// DecodeError reports a malformed or unsupported input buffer. It is
// fatal for the request and never retried.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Normalizer applies the fixed normalization step order:
// orient, downscale, grayscale, contrast stretch, sharpen, encode.
type Normalizer struct {
	maxWidth int
}

// New creates a Normalizer with the given width ceiling.
// A non-positive ceiling falls back to DefaultMaxWidth.
func New(maxWidth int) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Normalizer{maxWidth: maxWidth}
}

// MaxWidth returns the configured width ceiling.
func (n *Normalizer) MaxWidth() int { return n.maxWidth }

// Normalize transforms a raw upload into the canonical PNG raster.
// The output width never exceeds the ceiling and never exceeds the
// input width (no upscaling).
func (n *Normalizer) Normalize(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	if img.Bounds().Dx() > n.maxWidth {
		img = imaging.Resize(img, n.maxWidth, 0, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	stretchContrast(gray)
	sharpened := imaging.Sharpen(gray, 0.8)

	// Collapse to a single luminance channel; imaging keeps NRGBA
	// throughout, which would otherwise encode as truecolor.
	out := image.NewGray(sharpened.Rect)
	draw.Draw(out, out.Rect, sharpened, sharpened.Rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode normalized image: %w", err)
	}
	return buf.Bytes(), nil
}

// decode sniffs the payload format. PDFs render their first page
// (receipts are single-page in practice), HEIC photos get the pure-Go
// decoder, and everything else goes through imaging with EXIF
// orientation applied.
func decode(data []byte) (image.Image, error) {
	switch {
	case isPDF(data):
		return renderPDFPage(data)
	case isHEIC(data):
		return heic.Decode(bytes.NewReader(data))
	default:
		return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	}
}

func renderPDFPage(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("render pdf page: %w", err)
	}
	return img, nil
}

// isPDF reports whether the buffer starts with the PDF magic bytes.
func isPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// isHEIC sniffs the ISO-BMFF ftyp box brands used by HEIC/HEIF files.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heix", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// stretchContrast remaps luminance in place so the image uses the full
// dynamic range. Input must already be grayscale (R == G == B).
func stretchContrast(img *image.NRGBA) {
	min, max := uint8(255), uint8(0)
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		row := img.Pix[(y-img.Rect.Min.Y)*img.Stride : (y-img.Rect.Min.Y)*img.Stride+img.Rect.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			v := row[x]
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if max <= min {
		return
	}

	scale := 255.0 / float64(max-min)
	var lut [256]uint8
	for i := range lut {
		switch {
		case uint8(i) <= min:
			lut[i] = 0
		case uint8(i) >= max:
			lut[i] = 255
		default:
			lut[i] = uint8(float64(uint8(i)-min)*scale + 0.5)
		}
	}

	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		row := img.Pix[(y-img.Rect.Min.Y)*img.Stride : (y-img.Rect.Min.Y)*img.Stride+img.Rect.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			v := lut[row[x]]
			row[x], row[x+1], row[x+2] = v, v, v
		}
	}
}
