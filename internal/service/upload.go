package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tastytrove/backend/config"
	"github.com/tastytrove/backend/internal/models"
)

const presignExpiry = 15 * time.Minute

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// PresignedUpload is a minted upload slot: the reference to store alongside
// the URL the client PUTs the bytes to.
type PresignedUpload struct {
	Upload    models.FileUpload `json:"upload"`
	UploadURL string            `json:"uploadUrl"`
	ExpiresIn int               `json:"expiresIn"`
}

// UploadService mints presigned upload URLs. The server never touches file
// bytes; it hands out a slot and records the resulting reference.
type UploadService struct {
	s3 *config.S3Config
}

// NewUploadService creates a new UploadService instance
func NewUploadService(s3 *config.S3Config) *UploadService {
	return &UploadService{s3: s3}
}

// Presign allocates an object key under the caller's prefix and returns a
// presigned PUT URL for it. Only image content types are accepted.
func (s *UploadService) Presign(ctx context.Context, callerID, fileName, contentType string) (*PresignedUpload, error) {
	if s.s3 == nil {
		return nil, fmt.Errorf("upload storage is not configured")
	}
	if !allowedUploadTypes[contentType] {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrConflict, contentType)
	}

	id := uuid.New().String()
	ext := strings.ToLower(path.Ext(fileName))
	objectKey := fmt.Sprintf("uploads/%s/%s%s", callerID, id, ext)

	uploadURL, err := s.s3.PresignUpload(ctx, objectKey, contentType, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedUpload{
		Upload: models.FileUpload{
			ID:   id,
			Name: fileName,
			URL:  s.s3.ObjectURL(objectKey),
		},
		UploadURL: uploadURL,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}
