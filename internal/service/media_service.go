package service

import (
	"context"
	"path/filepath"
	"strings"

	"levelup/internal/models"
	"levelup/internal/repository"

	"github.com/gabriel-vasile/mimetype"
)

type MediaService struct {
	media    repository.MediaRepository
	maxBytes int
}

type UploadInput struct {
	UserID   string
	Filename string
	Data     []byte
}

// fallbackContentType is served for anything outside the media allowlist.
const fallbackContentType = "application/octet-stream"

// ServableContentType returns contentType when it is an image or video type
// and fallbackContentType otherwise, so stored bytes never render as markup
// from the API origin.
func ServableContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(contentType)), ";")
	if strings.HasPrefix(mediaType, "image/") && mediaType != "image/svg+xml" {
		return mediaType
	}
	if strings.HasPrefix(mediaType, "video/") {
		return mediaType
	}
	return fallbackContentType
}

func NewMediaService(media repository.MediaRepository, maxBytes int) *MediaService {
	return &MediaService{media: media, maxBytes: maxBytes}
}

// MaxBytes is the largest accepted upload.
func (s *MediaService) MaxBytes() int {
	return s.maxBytes
}

// Upload stores the blob as given. The content type always comes from the
// bytes; whatever the client declared is ignored.
func (s *MediaService) Upload(ctx context.Context, in UploadInput) (*models.Media, error) {
	if len(in.Data) == 0 {
		return nil, models.NewValidationError("File is required")
	}
	if len(in.Data) > s.maxBytes {
		return nil, models.NewOversizeError(s.maxBytes)
	}

	contentType := ServableContentType(mimetype.Detect(in.Data).String())

	m := &models.Media{
		UserID:      in.UserID,
		Filename:    filepath.Base(in.Filename),
		ContentType: contentType,
		Size:        len(in.Data),
		Data:        in.Data,
	}
	if err := s.media.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MediaService) Get(ctx context.Context, id string) (*models.Media, error) {
	return s.media.GetByID(ctx, id)
}
