package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	EventsFolder = "DevEvent"
	uploadTag    = "devevent"
)

// CloudinaryUploader pushes raw image bytes to Cloudinary and hands back the
// secure delivery URL.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, data []byte, folder string) (string, error) {
	if u.cld == nil {
		return "", errors.New("cloudinary client is not initialized")
	}
	if len(data) == 0 {
		return "", errors.New("image is empty")
	}
	if folder == "" {
		folder = EventsFolder
	}

	uploadResult, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		ResourceType: "image",
		Folder:       folder,
		Tags:         []string{uploadTag},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	// API-level failures come back in the result body, not as err.
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", uploadResult.Error.Message)
	}
	if uploadResult.SecureURL == "" {
		return "", errors.New("failed to upload image: no secure url returned")
	}

	return uploadResult.SecureURL, nil
}
