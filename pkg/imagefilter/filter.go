// Package imagefilter implements the fixed set of image transformations.
// Every filter takes an opaque RGB image and returns a new one of the same
// size; inputs are never modified.
package imagefilter

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const (
	blurSigma        = 15.0
	sharpenPasses    = 5
	edgeContrast     = 3.0
	brightnessFactor = 3.0
	contrastFactor   = 4.0
)

var (
	sharpenKernel = [9]float64{-2, -2, -2, -2, 32, -2, -2, -2, -2}
	edgeKernel    = [9]float64{-1, -1, -1, -1, 8, -1, -1, -1, -1}

	sepiaBlack = color.NRGBA{R: 0x70, G: 0x42, B: 0x14, A: 0xff}
	sepiaWhite = color.NRGBA{R: 0xC0, G: 0xA0, B: 0x80, A: 0xff}
)

// ToRGB copies img into an NRGBA buffer with the alpha channel dropped.
func ToRGB(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// Apply runs kind over img. The second result is false when kind is not a
// known filter, in which case the returned image is an unmodified copy.
func Apply(img image.Image, kind Kind) (*image.NRGBA, bool) {
	src := ToRGB(img)

	switch kind {
	case Grayscale:
		return gray(src), true
	case Blur:
		return imaging.Blur(src, blurSigma), true
	case Sharpen:
		return sharpen(src), true
	case Edge:
		return edge(src), true
	case Brightness:
		return brightness(src, brightnessFactor), true
	case Contrast:
		return contrast(src, contrastFactor), true
	case Sepia:
		return sepia(src), true
	case Negative:
		return imaging.Invert(src), true
	default:
		return src, false
	}
}

func luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 0x8000) >> 16)
}

func gray(img *image.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		l := luma(c.R, c.G, c.B)
		return color.NRGBA{R: l, G: l, B: l, A: 0xff}
	})
}

// convolve3x3 filters the interior only; the outermost row and column on each
// side keep their source pixels.
func convolve3x3(img *image.NRGBA, kernel [9]float64, opts *imaging.ConvolveOptions) *image.NRGBA {
	out := imaging.Convolve3x3(img, kernel, opts)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return out
	}

	rowBytes := w * 4
	copy(out.Pix[:rowBytes], img.Pix[:rowBytes])
	last := (h - 1) * img.Stride
	copy(out.Pix[(h-1)*out.Stride:(h-1)*out.Stride+rowBytes], img.Pix[last:last+rowBytes])
	for y := 1; y < h-1; y++ {
		left, right := y*img.Stride, y*img.Stride+(w-1)*4
		copy(out.Pix[y*out.Stride:y*out.Stride+4], img.Pix[left:left+4])
		copy(out.Pix[y*out.Stride+(w-1)*4:y*out.Stride+w*4], img.Pix[right:right+4])
	}
	return out
}

func sharpen(img *image.NRGBA) *image.NRGBA {
	opts := &imaging.ConvolveOptions{Normalize: true}
	out := img
	for i := 0; i < sharpenPasses; i++ {
		out = convolve3x3(out, sharpenKernel, opts)
	}
	return out
}

func edge(img *image.NRGBA) *image.NRGBA {
	edges := convolve3x3(gray(img), edgeKernel, nil)
	return contrast(edges, edgeContrast)
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}

func brightness(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp(float64(c.R) * factor),
			G: clamp(float64(c.G) * factor),
			B: clamp(float64(c.B) * factor),
			A: c.A,
		}
	})
}

// meanLuma is the average luminance rounded to the nearest integer.
func meanLuma(img *image.NRGBA) float64 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var sum uint64
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			sum += uint64(luma(row[x], row[x+1], row[x+2]))
		}
	}
	return math.Floor(float64(sum)/float64(n) + 0.5)
}

// contrast pushes each channel away from the mean luminance.
func contrast(img *image.NRGBA, factor float64) *image.NRGBA {
	mean := meanLuma(img)
	scale := func(v uint8) uint8 {
		return clamp(mean + factor*(float64(v)-mean))
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
}

// sepiaLUT maps luminance 0..255 linearly from sepiaBlack to sepiaWhite.
var sepiaLUT = func() [256]color.NRGBA {
	var lut [256]color.NRGBA
	lerp := func(lo, hi uint8, i int) uint8 {
		return uint8(int(lo) + i*(int(hi)-int(lo))/255)
	}
	for i := 0; i < 255; i++ {
		lut[i] = color.NRGBA{
			R: lerp(sepiaBlack.R, sepiaWhite.R, i),
			G: lerp(sepiaBlack.G, sepiaWhite.G, i),
			B: lerp(sepiaBlack.B, sepiaWhite.B, i),
			A: 0xff,
		}
	}
	lut[255] = sepiaWhite
	return lut
}()

func sepia(img *image.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return sepiaLUT[luma(c.R, c.G, c.B)]
	})
}
