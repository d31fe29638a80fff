// Package photostore keeps report and proof photos in an external blob store.
package photostore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// StoredPhoto is the reference returned after a successful upload
type StoredPhoto struct {
	URI      string
	PublicID string
	Filename string
	Size     int64
	Format   string
}

// Store uploads and removes photo blobs
type Store interface {
	Upload(ctx context.Context, file io.Reader, filename string, size int64) (*StoredPhoto, error)
	Delete(ctx context.Context, publicID string) error
}

// ErrNotConfigured is returned by Disabled
var ErrNotConfigured = errors.New("photo storage is not configured")

// Disabled rejects every upload. Used when no blob store is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string, int64) (*StoredPhoto, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Delete(context.Context, string) error { return ErrNotConfigured }

// File validation constants
var (
	AllowedImageTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	MaxImageSize      = int64(10 * 1024 * 1024) // 10MB
)

// ValidateImageFile validates an image file upload
func ValidateImageFile(header *multipart.FileHeader) error {
	if header.Size > MaxImageSize {
		return fmt.Errorf("image file size exceeds maximum allowed size of %d MB", MaxImageSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid image file type: %s. Allowed types: %s", ext, strings.Join(AllowedImageTypes, ", "))
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
