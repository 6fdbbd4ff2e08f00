// Package photo turns uploaded images into bounded thumbnails and places the
// bytes according to the process-wide storage mode.
package photo

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// Ext is the normalized extension for every stored thumbnail.
	Ext = ".jpg"

	thumbnailMax = 256
	jpegQuality  = 50
)

var specialChars = regexp.MustCompile(`[^A-Za-z0-9]+`)

// CleanFilename strips the extension, replaces runs of special characters
// with a single underscore and appends the normalized thumbnail extension.
func CleanFilename(name string) string {
	base := name
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}

	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}

	base = strings.Trim(specialChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "photo"
	}

	return base + Ext
}

// Thumbnail decodes raw image bytes and re-encodes a thumbnail bounded to
// 256x256 preserving aspect ratio, using lossy compression tuned for size.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, thumbnailMax, thumbnailMax, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func timestamp() string {
	return time.Now().Format("20060102150405")
}
