package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{})
	return img
}

func TestDecodeImage_PNG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testNRGBA()))

	img, err := DecodeImage(buf.Bytes(), 1)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 6, img.Height)
	require.Len(t, img.Pix, 8*6*4)

	// Opaque pixel: plain BGRA.
	assert.Equal(t, []byte{50, 100, 200, 255}, img.Pix[(1*8+2)*4:(1*8+2)*4+4])

	// Half transparent pixel: channels premultiplied.
	px := img.Pix[0:4]
	assert.Equal(t, byte(128), px[3])
	assert.InDelta(t, 50*128/255, int(px[0]), 1)
	assert.InDelta(t, 100*128/255, int(px[1]), 1)
	assert.InDelta(t, 200*128/255, int(px[2]), 1)

	// Fully transparent pixel is all zero.
	assert.Equal(t, []byte{0, 0, 0, 0}, img.Pix[4:8])
}

func TestDecodeImage_BMP(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	img, err := DecodeImage(buf.Bytes(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, bytes.Repeat([]byte{0xff}, 4*4*4), img.Pix)
}

func TestDecodeImage_Scale(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testNRGBA()))

	img, err := DecodeImage(buf.Bytes(), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Len(t, img.Pix, 4*3*4)

	img, err = DecodeImage(buf.Bytes(), 2)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 12, img.Height)
}

func TestDecodeImage_Errors(t *testing.T) {
	t.Parallel()

	_, err := DecodeImage([]byte("not an image"), 1)
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testNRGBA()))
	_, err = DecodeImage(buf.Bytes(), 0)
	assert.Error(t, err)
}
