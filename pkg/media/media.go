// Package media uploads admin-provided product images to cloudinary and
// hands back hosted URLs.
package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Uploader stores an image and returns its hosted location.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader) (*Upload, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader reads credentials from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader) (*Upload, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	return &Upload{URL: result.SecureURL, PublicID: result.PublicID}, nil
}
