package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"alcyxob/gymledger/internal/domain"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// ObjectExists reports whether an object has been uploaded under objectKey.
	ObjectExists(ctx context.Context, objectKey string) (bool, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

var ErrUnsupportedContentType = errors.New("unsupported image content type")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// PhotoKeyPrefix is the key prefix under which photos of one member live.
func PhotoKeyPrefix(gymID, memberID string) string {
	return path.Join("gyms", gymID, "members", memberID) + "/"
}

// NewPhotoKey builds a fresh object key for a member photo. Every upload gets
// its own key so a replaced photo never serves a stale cached object.
func NewPhotoKey(gymID, memberID string, kind domain.PhotoKind, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return PhotoKeyPrefix(gymID, memberID) + string(kind) + "-" + uuid.NewString() + ext, nil
}

// OwnsPhotoKey reports whether key was issued for the given member and slot.
func OwnsPhotoKey(gymID, memberID string, kind domain.PhotoKind, key string) bool {
	return strings.HasPrefix(key, PhotoKeyPrefix(gymID, memberID)+string(kind)+"-")
}
