package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"safari-booking/pkg/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// UploadResult is the stored object's stable URL plus the identifier needed
// to delete it later.
type UploadResult struct {
	URL      string
	PublicID string
}

// Storage is the file-storage contract: byte stream in, stable URL out,
// delete by identifier.
type Storage interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type cloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
	log    *zap.Logger
}

func NewCloudinaryStorage(config utils.StorageConfig, log *zap.Logger) (Storage, error) {
	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	return &cloudinaryStorage{
		cld:    cld,
		folder: config.Folder,
		log:    log,
	}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, file io.Reader, filename string) (*UploadResult, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		s.log.Error("Failed to upload file",
			zap.Error(err),
			zap.String("filename", filename),
		)
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}

	s.log.Info("File uploaded",
		zap.String("filename", filename),
		zap.String("public_id", result.PublicID),
	)

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		s.log.Error("Failed to delete file",
			zap.Error(err),
			zap.String("public_id", publicID),
		)
		return fmt.Errorf("delete %s: %w", publicID, err)
	}

	return nil
}

// PublicIDFromURL recovers the deletion identifier from a stored document URL.
// Stored objects live under a single folder, so the id is folder/<basename>.
func PublicIDFromURL(url, folder string) string {
	if url == "" {
		return ""
	}

	parts := strings.Split(url, "/")
	filename := parts[len(parts)-1]
	if dot := strings.LastIndex(filename, "."); dot > 0 {
		filename = filename[:dot]
	}
	if filename == "" {
		return ""
	}

	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}
