package ui

import (
	"image"
	"math"
)

const (
	barHeight       = 4
	barBottomOffset = 75
)

// Bar colors in BGRA order, fully opaque.
var (
	BarBackground = [4]byte{0x2e, 0x29, 0x26, 0xff}
	BarAccent     = [4]byte{0xd9, 0x8c, 0x1e, 0xff}
)

// BarRect returns the progress bar band for a surface of the given size: a
// 12.5% margin on each side, 4px tall, 75px above the bottom edge and kept
// inside the surface.
func BarRect(width, height int) image.Rectangle {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}
	}
	margin := width / 8
	left, right := margin, width-margin
	if right-left < 1 {
		right = min(left+1, width)
	}

	top := min(max(height-barBottomOffset, 0), height-1)
	bottom := min(top+barHeight, height)
	return image.Rect(left, top, right, bottom)
}

// FillWidth is the number of accent pixels for progress p in [0,100].
func FillWidth(barWidth int, p float32) int {
	if barWidth < 1 {
		barWidth = 1
	}
	return int(math.Floor(float64(barWidth) * float64(clampPercent(p)) / 100))
}

// Compose returns a new frame: base with the progress bar drawn over it.
func Compose(base *Image, p float32) []byte {
	return ComposeInto(nil, base, p)
}

// ComposeInto is Compose reusing dst when it is large enough. base is only
// read, so it can be shared between goroutines.
func ComposeInto(dst []byte, base *Image, p float32) []byte {
	if cap(dst) < len(base.Pix) {
		dst = make([]byte, len(base.Pix))
	}
	dst = dst[:len(base.Pix)]
	copy(dst, base.Pix)

	bar := BarRect(base.Width, base.Height)
	if bar.Empty() {
		return dst
	}

	// The bar fills from the right edge towards the left.
	fillStart := bar.Max.X - FillWidth(bar.Dx(), p)
	stride := base.Width * 4
	for y := bar.Min.Y; y < bar.Max.Y; y++ {
		row := dst[y*stride : (y+1)*stride]
		for x := bar.Min.X; x < bar.Max.X; x++ {
			c := BarBackground
			if x >= fillStart {
				c = BarAccent
			}
			copy(row[x*4:x*4+4], c[:])
		}
	}
	return dst
}

func clampPercent(p float32) float32 {
	switch {
	case p != p || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
