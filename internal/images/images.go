// Package images converts image files to and from the data URLs stored on
// problems.
package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// MaxSize limits the size of a single image file.
const MaxSize = 10 << 20

var (
	ErrNotImage  = errors.New("images: not an image")
	ErrTooLarge  = errors.New("images: file too large")
	ErrMalformed = errors.New("images: malformed data URL")
)

// EncodeFile reads an image file and returns it as a data URL.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return Encode(data)
}

// Encode returns data as a data URL, sniffing the MIME type.
func Encode(data []byte) (string, error) {
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Decode returns the MIME type and bytes of a stored image. Values without
// a data URL prefix are treated as raw base64 and sniffed.
func Decode(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, "data:") {
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return http.DetectContentType(data), data, nil
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", nil, ErrMalformed
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: not base64", ErrMalformed)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return mime, data, nil
}

// Extension returns a file extension for a MIME type.
func Extension(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
