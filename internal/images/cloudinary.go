package images

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader pushes product images to the image host and returns their URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
}

type Config struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
}

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	preset string
}

// NewCloudinary builds an Uploader against a Cloudinary account. Credentials
// are required here; missing ones surface as an error at construction.
func NewCloudinary(cfg Config) (Uploader, error) {
	if cfg.CloudName == "" {
		return nil, errors.New("cloudinary cloud name required")
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &cloudinaryUploader{cld: cld, preset: cfg.UploadPreset}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		UploadPreset: u.preset,
		Folder:       "products",
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return resp.SecureURL, nil
}
