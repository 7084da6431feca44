package normalize

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// testImage encodes a synthetic receipt-like raster as PNG.
func testImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// alternating light/dark bands so contrast stretch has work to do
			if (y/10)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 220, G: 210, B: 200, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 60, G: 55, B: 50, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	return img
}

func TestNormalize(t *testing.T) {
	t.Run("wide image is downscaled to ceiling", func(t *testing.T) {
		n := New(400)
		out, err := n.Normalize(testImage(t, 800, 600))
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		img := decodePNG(t, out)
		if got := img.Bounds().Dx(); got != 400 {
			t.Errorf("output width = %d, want 400", got)
		}
		if got := img.Bounds().Dy(); got != 300 {
			t.Errorf("output height = %d, want 300 (aspect preserved)", got)
		}
	})

	t.Run("narrow image is never upscaled", func(t *testing.T) {
		n := New(1800)
		out, err := n.Normalize(testImage(t, 300, 500))
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if got := decodePNG(t, out).Bounds().Dx(); got != 300 {
			t.Errorf("output width = %d, want 300", got)
		}
	})

	t.Run("output is single-channel grayscale", func(t *testing.T) {
		n := New(0)
		out, err := n.Normalize(testImage(t, 100, 100))
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}

		cfg, err := png.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decode config: %v", err)
		}
		if cfg.ColorModel != color.GrayModel {
			t.Error("encoded color model is not 8-bit gray")
		}

		img := decodePNG(t, out)
		if _, ok := img.(*image.Gray); !ok {
			t.Fatalf("decoded type = %T, want *image.Gray", img)
		}
	})

	t.Run("jpeg input is accepted", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 50, 50))
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src, nil); err != nil {
			t.Fatalf("encode jpeg: %v", err)
		}

		n := New(0)
		if _, err := n.Normalize(buf.Bytes()); err != nil {
			t.Errorf("Normalize() error = %v", err)
		}
	})

	t.Run("garbage input is a DecodeError", func(t *testing.T) {
		n := New(0)
		_, err := n.Normalize([]byte("definitely not an image"))
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("Normalize() error = %v, want DecodeError", err)
		}
	})

	t.Run("empty input is a DecodeError", func(t *testing.T) {
		n := New(0)
		_, err := n.Normalize(nil)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("Normalize() error = %v, want DecodeError", err)
		}
	})

	t.Run("zero ceiling falls back to default", func(t *testing.T) {
		if got := New(0).MaxWidth(); got != DefaultMaxWidth {
			t.Errorf("MaxWidth() = %d, want %d", got, DefaultMaxWidth)
		}
		if got := New(-5).MaxWidth(); got != DefaultMaxWidth {
			t.Errorf("MaxWidth() = %d, want %d", got, DefaultMaxWidth)
		}
	})
}

func TestFormatSniffing(t *testing.T) {
	t.Run("pdf magic", func(t *testing.T) {
		if !isPDF([]byte("%PDF-1.7 rest")) {
			t.Error("isPDF() = false for PDF header")
		}
		if isPDF([]byte("plain text")) {
			t.Error("isPDF() = true for plain text")
		}
	})

	t.Run("heic ftyp brands", func(t *testing.T) {
		heic := []byte{0, 0, 0, 24, 'f', 't', 'y', 'p', 'h', 'e', 'i', 'c'}
		if !isHEIC(heic) {
			t.Error("isHEIC() = false for heic brand")
		}
		mp4 := []byte{0, 0, 0, 24, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}
		if isHEIC(mp4) {
			t.Error("isHEIC() = true for isom brand")
		}
		if isHEIC([]byte("short")) {
			t.Error("isHEIC() = true for short buffer")
		}
	})
}

func TestStretchContrast(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	img.Set(1, 0, color.NRGBA{R: 150, G: 150, B: 150, A: 255})

	stretchContrast(img)

	if v := img.NRGBAAt(0, 0).R; v != 0 {
		t.Errorf("darkest pixel = %d, want 0", v)
	}
	if v := img.NRGBAAt(1, 0).R; v != 255 {
		t.Errorf("lightest pixel = %d, want 255", v)
	}
}

func TestStretchContrastFlatImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}

	stretchContrast(img)

	if v := img.NRGBAAt(0, 0).R; v != 128 {
		t.Errorf("flat image pixel = %d, want unchanged 128", v)
	}
}
