package photostore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores photos under <folder>/reports
type Cloudinary struct {
	cld          *cloudinary.Cloudinary
	uploadFolder string
}

// NewCloudinary creates a new Cloudinary-backed store
func NewCloudinary(cloudName, apiKey, apiSecret, uploadFolder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are required")
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	if uploadFolder == "" {
		uploadFolder = "civic-connect"
	}

	return &Cloudinary{
		cld:          cld,
		uploadFolder: uploadFolder,
	}, nil
}

// Upload uploads an image file to Cloudinary
func (s *Cloudinary) Upload(ctx context.Context, file io.Reader, filename string, size int64) (*StoredPhoto, error) {
	uploadParams := uploader.UploadParams{
		Folder:       s.uploadFolder + "/reports",
		ResourceType: "image",
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	stored := int64(result.Bytes)
	if stored == 0 {
		stored = size
	}

	return &StoredPhoto{
		URI:      result.SecureURL,
		PublicID: result.PublicID,
		Filename: filename,
		Size:     stored,
		Format:   result.Format,
	}, nil
}

// Delete removes an asset from Cloudinary
func (s *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return errors.New("publicID is required")
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return nil
}
