package services

import (
	"context"
	"io"

	"discounts/errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageUploader stores an image and returns its public URL
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

// CloudinaryUploader uploads deal images into one Cloudinary folder
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, folder: folder}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder,
		UseFilename:    boolPtr(true),
		UniqueFilename: boolPtr(true),
		Tags:           []string{"deal"},
	})
	if err != nil {
		return "", errors.NewAppError(errors.ErrCodeUpload, "Image upload failed", err)
	}
	if resp.Error.Message != "" {
		return "", errors.NewAppError(errors.ErrCodeUpload, resp.Error.Message, nil)
	}
	return resp.SecureURL, nil
}

func boolPtr(b bool) *bool {
	return &b
}
