package model

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Storage keeps uploaded binary objects.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ImageContentTypes lists the image extensions that are stored and served,
// with the content type each one is served as.
var ImageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension returns the stored extension for an upload: the filename's
// extension when it is a known image type, otherwise the one matching the
// declared content type, otherwise "".
func ImageExtension(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := ImageContentTypes[ext]; ok {
		return ext
	}
	return imageExtensions[strings.ToLower(contentType)]
}

// Upload describes an incoming image file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}
