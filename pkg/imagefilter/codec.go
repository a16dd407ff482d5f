package imagefilter

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const DefaultJPEGQuality = 95

// Decode reads the stored pixels as-is. EXIF orientation is not applied, so
// the result has the same dimensions the file declares.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// FormatFor picks the output encoding from the original upload name: PNG for
// .png, JPEG for everything else.
func FormatFor(originalName string) imaging.Format {
	if strings.EqualFold(filepath.Ext(originalName), ".png") {
		return imaging.PNG
	}
	return imaging.JPEG
}

func Encode(img image.Image, format imaging.Format, jpegQuality int) ([]byte, error) {
	if jpegQuality <= 0 {
		jpegQuality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
