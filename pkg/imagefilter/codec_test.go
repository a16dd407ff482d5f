package imagefilter

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"image-processing-be/internal/testsupport"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	assert.Equal(t, imaging.PNG, FormatFor("0a1b2c3d_cat.png"))
	assert.Equal(t, imaging.PNG, FormatFor("CAT.PNG"))
	assert.Equal(t, imaging.JPEG, FormatFor("cat.jpg"))
	assert.Equal(t, imaging.JPEG, FormatFor("cat.gif"))
	assert.Equal(t, imaging.JPEG, FormatFor("cat.bmp"))
	assert.Equal(t, imaging.JPEG, FormatFor("cat"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	out, _ := Apply(gradient(24, 16), Negative)

	t.Run("png is lossless", func(t *testing.T) {
		data, err := Encode(out, imaging.PNG, 0)
		require.NoError(t, err)

		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 24, cfg.Width)

		img, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, out.Pix, ToRGB(img).Pix)
	})

	t.Run("jpeg", func(t *testing.T) {
		data, err := Encode(out, imaging.JPEG, DefaultJPEGQuality)
		require.NoError(t, err)

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, image.Point{X: 24, Y: 16}, image.Point{X: cfg.Width, Y: cfg.Height})
	})
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestDecodeIgnoresExifOrientation(t *testing.T) {
	img, err := Decode(testsupport.OrientedJPEG(t, 8, 4, 6))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}
