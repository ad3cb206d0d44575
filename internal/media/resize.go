package media

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// resizeCover resamples an image payload to exactly dims, cropping overflow
// to preserve aspect ratio (cover fit, never letterboxed). Returns the
// re-encoded bytes and the content type they were encoded as.
func resizeCover(data []byte, dims Dimensions, contentType string) ([]byte, string, error) {
	if dims.Width <= 0 || dims.Height <= 0 {
		return nil, "", fmt.Errorf("invalid target dimensions %dx%d", dims.Width, dims.Height)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	filled := imaging.Fill(img, dims.Width, dims.Height, imaging.Center, imaging.Lanczos)

	format, outType := encodingFor(contentType)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, filled, format); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), outType, nil
}

// encodingFor maps a source content type onto an output encoding. Formats we
// cannot encode (webp, unknown) fall back to jpeg.
func encodingFor(contentType string) (imaging.Format, string) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return imaging.PNG, "image/png"
	case "image/gif":
		return imaging.GIF, "image/gif"
	default:
		return imaging.JPEG, "image/jpeg"
	}
}
