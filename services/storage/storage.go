package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore implements ImageStore on Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore returns nil when cld is nil, so uploads can be disabled by configuration.
func NewCloudinaryStore(cld *cloudinary.Cloudinary) ImageStore {
	if cld == nil {
		return nil
	}
	return &CloudinaryStore{cld: cld}
}

// UploadImage uploads r into folder and returns its public ID and secure URL.
func (s *CloudinaryStore) UploadImage(ctx context.Context, r io.Reader, folder, name string) (UploadedImage, error) {
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicIDHint(name),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		ResourceType:   "image",
	}
	result, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return UploadedImage{}, fmt.Errorf("CloudinaryStore: failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return UploadedImage{}, fmt.Errorf("CloudinaryStore: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return UploadedImage{}, fmt.Errorf("CloudinaryStore: no public ID returned")
	}
	return UploadedImage{PublicID: result.PublicID, URL: result.SecureURL}, nil
}

// DeleteImage removes an image by public ID.
func (s *CloudinaryStore) DeleteImage(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("CloudinaryStore: failed to delete image: %w", err)
	}
	return nil
}

// publicIDHint strips the extension and anything outside [a-z0-9_-] from a file name.
func publicIDHint(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
