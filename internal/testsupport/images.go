package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// Gradient is a small RGBA test card with a translucent column.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if x == 0 {
				a = 100
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x ^ y) & 0xff),
				A: a,
			})
		}
	}
	return img
}

func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, Gradient(w, h)))
	return buf.Bytes()
}

func JPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, Gradient(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// OrientedJPEG is JPEG(t, w, h) carrying an EXIF APP1 segment with the given
// Orientation tag, the way phone cameras mark rotated shots.
func OrientedJPEG(t *testing.T, w, h int, orientation uint16) []byte {
	t.Helper()
	src := JPEG(t, w, h)

	app1 := []byte{
		0xFF, 0xE1, 0x00, 0x22,
		'E', 'x', 'i', 'f', 0x00, 0x00,
		'M', 'M', 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08,
		0x00, 0x01,
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, byte(orientation >> 8), byte(orientation), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}

	out := make([]byte, 0, len(src)+len(app1))
	out = append(out, src[:2]...)
	out = append(out, app1...)
	return append(out, src[2:]...)
}
