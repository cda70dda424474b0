package service

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	default:
		t.Fatalf("unsupported test format %q", format)
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, raw []byte) (int, int) {
	t.Helper()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode normalized image: %v", err)
	}
	if format != "png" {
		t.Fatalf("normalized image should be png, got %s", format)
	}
	return cfg.Width, cfg.Height
}

func TestNormalizeImage_ScalesDown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		w, h   int
		wantW  int
		wantH  int
	}{
		{"large_landscape_png", "png", 1024, 512, 256, 128},
		{"large_portrait_jpeg", "jpeg", 300, 600, 128, 256},
		{"large_square_png", "png", 512, 512, 256, 256},
		{"small_stays_png", "png", 100, 50, 100, 50},
		{"exact_bound", "png", 256, 256, 256, 256},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			raw := encodeTestImage(t, test.w, test.h, test.format)

			normalized, err := NormalizeImage(raw)
			if err != nil {
				t.Fatalf("NormalizeImage failed: %v", err)
			}

			gotW, gotH := decodeDims(t, normalized)
			if gotW != test.wantW || gotH != test.wantH {
				t.Errorf("normalized to %dx%d, want %dx%d", gotW, gotH, test.wantW, test.wantH)
			}
		})
	}
}

func TestNormalizeImage_RejectsGarbage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not an image")},
		{"truncated_png", encodeTestImage(t, 64, 64, "png")[:20]},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NormalizeImage(test.raw); !errors.Is(err, ErrImageDecode) {
				t.Errorf("expected ErrImageDecode, got %v", err)
			}
		})
	}
}

func TestFitInside(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"already_inside", 100, 200, 100, 200},
		{"wide", 1000, 250, 256, 64},
		{"tall", 250, 1000, 64, 256},
		{"square", 2048, 2048, 256, 256},
		{"extreme_ratio_clamps_to_one", 100000, 10, 256, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gotW, gotH := fitInside(test.w, test.h, 256)
			if gotW != test.wantW || gotH != test.wantH {
				t.Errorf("fitInside(%d, %d) = (%d, %d), want (%d, %d)",
					test.w, test.h, gotW, gotH, test.wantW, test.wantH)
			}
		})
	}
}
