package service

import (
	"bytes"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"

	"golang.org/x/image/draw"
)

// Profile images are normalized to PNG bounded by a 256x256 box,
// preserving aspect ratio (fit inside, never crop or stretch).
const (
	profileImageBound = 256
)

// NormalizeImage decodes JPEG or PNG bytes, scales the image down to fit
// inside the 256x256 bound and re-encodes it as PNG. Images already
// within the bound are re-encoded without scaling.
func NormalizeImage(raw []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrImageDecode
	}
	if format != "jpeg" && format != "png" {
		return nil, ErrImageType
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrImageDecode
	}

	targetW, targetH := fitInside(width, height, profileImageBound)

	var normalized image.Image = src
	if targetW != width || targetH != height {
		dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		normalized = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, normalized); err != nil {
		return nil, ErrImageDecode
	}

	return buf.Bytes(), nil
}

// fitInside scales (w, h) down proportionally so both sides fit within
// bound. Dimensions already inside the bound are returned unchanged.
func fitInside(w, h, bound int) (int, int) {
	if w <= bound && h <= bound {
		return w, h
	}

	if w >= h {
		scaled := h * bound / w
		if scaled < 1 {
			scaled = 1
		}
		return bound, scaled
	}

	scaled := w * bound / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, bound
}
