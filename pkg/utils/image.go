package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strings"
)

const pngDataURLPrefix = "data:image/png;base64,"

var dataURIPattern = regexp.MustCompile(`^data:([^;]+);base64,`)

// EncodePNGDataURL encodes the image losslessly as PNG and wraps the base64
// payload in a data URL suitable for direct client-side embedding. The
// encoder uses the default compression level, so the same pixel data always
// produces the same string.
func EncodePNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("png encoding failed: %w", err)
	}
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodePNGDataURL is the inverse of EncodePNGDataURL.
func DecodePNGDataURL(s string) (image.Image, error) {
	m := dataURIPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("not a base64 data URL")
	}
	if m[1] != "image/png" {
		return nil, fmt.Errorf("unexpected media type %q", m[1])
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, m[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	return png.Decode(bytes.NewReader(data))
}
