package ui

import (
	"bytes"
	"errors"
	"image"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Image is an immutable bitmap in the layout UpdateLayeredWindow expects:
// top-down rows, 4 bytes per pixel in B, G, R, A order, color channels
// premultiplied by alpha.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// DecodeImage decodes a PNG, BMP or WebP asset. A scale other than 1
// resamples it first.
func DecodeImage(data []byte, scale float64) (*Image, error) {
	if scale <= 0 {
		return nil, errors.New("image scale must be positive")
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if scale != 1 {
		src = Scale(src, scale)
	}
	return FromImage(src), nil
}

// FromImage converts any image to premultiplied BGRA.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	// image.RGBA is already premultiplied; only the channel order differs.
	pix := make([]byte, len(rgba.Pix))
	for i := 0; i < len(pix); i += 4 {
		pix[i] = rgba.Pix[i+2]
		pix[i+1] = rgba.Pix[i+1]
		pix[i+2] = rgba.Pix[i]
		pix[i+3] = rgba.Pix[i+3]
	}

	return &Image{Width: b.Dx(), Height: b.Dy(), Pix: pix}
}

// Scale resamples src by factor with Catmull-Rom filtering.
func Scale(src image.Image, factor float64) image.Image {
	b := src.Bounds()
	w := max(int(float64(b.Dx())*factor+0.5), 1)
	h := max(int(float64(b.Dy())*factor+0.5), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
