package imagefilter

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gradient is a translucent test card so alpha handling is exercised too.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / (w - 1)),
				G: uint8(y * 255 / (h - 1)),
				B: uint8((x + y) * 255 / (w + h - 2)),
				A: uint8(128 + x%128),
			})
		}
	}
	return img
}

func assertOpaque(t *testing.T, img *image.NRGBA) {
	t.Helper()
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			t.Fatalf("pixel %d has alpha %d", i/4, img.Pix[i])
		}
	}
}

func TestApply_PreservesSizeAndDropsAlpha(t *testing.T) {
	src := gradient(48, 32)

	for _, kind := range All() {
		t.Run(kind.String(), func(t *testing.T) {
			out, ok := Apply(src, kind)
			require.True(t, ok)
			assert.Equal(t, 48, out.Bounds().Dx())
			assert.Equal(t, 32, out.Bounds().Dy())
			assertOpaque(t, out)
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	src := gradient(16, 16)
	before := append([]uint8(nil), src.Pix...)

	for _, kind := range All() {
		Apply(src, kind)
	}
	assert.Equal(t, before, src.Pix)
}

func TestApply_UnknownKindPassesThrough(t *testing.T) {
	src := gradient(10, 10)
	out, ok := Apply(src, Kind("posterize"))
	assert.False(t, ok)
	assert.Equal(t, ToRGB(src).Pix, out.Pix)
}

func TestApply_NegativeTwiceIsIdentity(t *testing.T) {
	src := gradient(20, 12)
	rgb := ToRGB(src)

	once, _ := Apply(src, Negative)
	for i := 0; i < len(rgb.Pix); i += 4 {
		require.Equal(t, 255-rgb.Pix[i], once.Pix[i])
		require.Equal(t, 255-rgb.Pix[i+1], once.Pix[i+1])
		require.Equal(t, 255-rgb.Pix[i+2], once.Pix[i+2])
	}

	twice, _ := Apply(once, Negative)
	assert.Equal(t, rgb.Pix, twice.Pix)
}

func TestApply_GrayscaleChannelsMatch(t *testing.T) {
	out, _ := Apply(gradient(12, 12), Grayscale)
	for i := 0; i < len(out.Pix); i += 4 {
		require.Equal(t, out.Pix[i], out.Pix[i+1])
		require.Equal(t, out.Pix[i], out.Pix[i+2])
	}
}

func TestLuma(t *testing.T) {
	assert.Equal(t, uint8(0), luma(0, 0, 0))
	assert.Equal(t, uint8(255), luma(255, 255, 255))
	assert.Equal(t, uint8(76), luma(255, 0, 0))
	assert.Equal(t, uint8(150), luma(0, 255, 0))
	assert.Equal(t, uint8(29), luma(0, 0, 255))
}

func TestSepiaEndpoints(t *testing.T) {
	assert.Equal(t, sepiaBlack, sepiaLUT[0])
	assert.Equal(t, sepiaWhite, sepiaLUT[255])

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	out, _ := Apply(img, Sepia)
	assert.Equal(t, color.NRGBA{R: 112, G: 66, B: 20, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 192, G: 160, B: 128, A: 255}, out.NRGBAAt(1, 0))
}

func TestBrightnessClamps(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 100, B: 0, A: 0xff})

	out, _ := Apply(img, Brightness)
	assert.Equal(t, color.NRGBA{R: 30, G: 255, B: 0, A: 255}, out.NRGBAAt(0, 0))
}

func TestContrastOnUniformImageIsNoop(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 90, 90, 90, 0xff
	}

	out, _ := Apply(img, Contrast)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestEdgeOnFlatImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 40, 90, 0xff
	}

	out, _ := Apply(img, Edge)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := out.NRGBAAt(x, y)
			if x == 0 || y == 0 || x == 7 || y == 7 {
				require.Greater(t, c.R, uint8(150), "border %d,%d", x, y)
			} else {
				require.Zero(t, c.R, "interior %d,%d", x, y)
			}
		}
	}
}

func TestSharpenKeepsBorder(t *testing.T) {
	src := ToRGB(gradient(10, 6))
	out, _ := Apply(src, Sharpen)

	for x := 0; x < 10; x++ {
		assert.Equal(t, src.NRGBAAt(x, 0), out.NRGBAAt(x, 0))
		assert.Equal(t, src.NRGBAAt(x, 5), out.NRGBAAt(x, 5))
	}
	for y := 0; y < 6; y++ {
		assert.Equal(t, src.NRGBAAt(0, y), out.NRGBAAt(0, y))
		assert.Equal(t, src.NRGBAAt(9, y), out.NRGBAAt(9, y))
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("sepia")
	assert.True(t, ok)
	assert.Equal(t, Sepia, k)

	for _, name := range []string{"posterize", "GRAYSCALE", " sepia ", "Sepia Tone"} {
		k, ok = ParseKind(name)
		assert.False(t, ok, name)
		assert.Equal(t, Kind(name), k)
	}

	assert.Len(t, All(), 8)
	for _, k := range All() {
		assert.NotEmpty(t, k.Description())
	}
}
