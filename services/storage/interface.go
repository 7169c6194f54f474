package storage

import (
	"context"
	"io"
)

// UploadedImage identifies a stored image.
type UploadedImage struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// ImageStore keeps ground photos.
type ImageStore interface {
	// UploadImage stores the image read from r under folder. name is used as a hint for the stored id.
	UploadImage(ctx context.Context, r io.Reader, folder, name string) (UploadedImage, error)
	DeleteImage(ctx context.Context, publicID string) error
}
