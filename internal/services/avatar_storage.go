package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AvatarURLPrefix is where the router serves stored avatars.
const AvatarURLPrefix = "/images/avatars/"

// MaxAvatarBytes bounds an uploaded avatar.
const MaxAvatarBytes = 2 << 20

var (
	ErrEmptyAvatar      = errors.New("empty image data")
	ErrAvatarTooLarge   = fmt.Errorf("avatar exceeds %d bytes", MaxAvatarBytes)
	ErrUnsupportedImage = errors.New("avatar must be a JPEG, PNG, GIF or WebP image")
)

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarStorage keeps profile pictures on local disk
type AvatarStorage struct {
	storageDir string
}

// NewAvatarStorage creates the storage directory if needed.
func NewAvatarStorage(storageDir string) (*AvatarStorage, error) {
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		return nil, fmt.Errorf("create avatar directory: %w", err)
	}
	return &AvatarStorage{storageDir: storageDir}, nil
}

// Save writes the image under a fresh uuid name and returns that name.
func (s *AvatarStorage) Save(imageData []byte) (string, error) {
	if len(imageData) == 0 {
		return "", ErrEmptyAvatar
	}
	if len(imageData) > MaxAvatarBytes {
		return "", ErrAvatarTooLarge
	}

	ext, ok := avatarExtensions[http.DetectContentType(imageData)]
	if !ok {
		return "", ErrUnsupportedImage
	}

	filename := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.storageDir, filename), imageData, 0644); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}
	return filename, nil
}

// Delete removes a previously saved avatar. Missing files are ignored.
func (s *AvatarStorage) Delete(filename string) error {
	filename = filepath.Base(strings.TrimPrefix(filename, AvatarURLPrefix))
	if filename == "." || filename == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.storageDir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete avatar: %w", err)
	}
	return nil
}

// Dir returns the storage directory path
func (s *AvatarStorage) Dir() string {
	return s.storageDir
}
