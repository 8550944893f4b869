package services

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/yungbote/taiyaki-backend/internal/platform/apierr"
)

type decodedPhoto struct {
	Data        []byte
	ContentType string
	Ext         string
}

var photoFormats = map[string]struct {
	contentType string
	ext         string
}{
	"jpeg": {"image/jpeg", "jpg"},
	"png":  {"image/png", "png"},
	"gif":  {"image/gif", "gif"},
	"webp": {"image/webp", "webp"},
}

// decodePhoto accepts raw base64 or a data:image/...;base64, URL and checks
// that the payload is a JPEG, PNG, GIF or WebP image.
func decodePhoto(payload string) (*decodedPhoto, error) {
	s := strings.TrimSpace(payload)
	if s == "" {
		return nil, apierr.Validation("photo is required")
	}
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.HasSuffix(strings.ToLower(s[:comma]), ";base64") {
			return nil, apierr.Validation("photo data URL must be base64 encoded")
		}
		s = s[comma+1:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil || len(raw) == 0 {
		return nil, apierr.Validation("photo is not valid base64")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, apierr.Validation("photo is not a supported image (jpeg, png, gif, webp)")
	}
	f, ok := photoFormats[format]
	if !ok {
		return nil, apierr.Validation("photo format %q is not supported", format)
	}
	return &decodedPhoto{Data: raw, ContentType: f.contentType, Ext: f.ext}, nil
}

func dataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
