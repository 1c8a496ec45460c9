package server

import (
	"errors"
	"io"
	"mime/multipart"

	"levelup/internal/models"
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// upload is a multipart file read fully into memory.
type upload struct {
	Filename string
	Data     []byte
}

var errNoFile = errors.New("no file uploaded")

// readUpload reads the first present form file among fields. Files above
// maxBytes are rejected without reading past the limit.
func readUpload(c *fiber.Ctx, maxBytes int, fields ...string) (*upload, error) {
	var (
		header *multipart.FileHeader
		err    error
	)
	for _, field := range fields {
		header, err = c.FormFile(field)
		if err == nil {
			break
		}
	}
	if header == nil {
		return nil, models.NewValidationError(errNoFile.Error())
	}
	if maxBytes > 0 && header.Size > int64(maxBytes) {
		return nil, models.NewOversizeError(maxBytes)
	}

	src, err := header.Open()
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	var r io.Reader = src
	if maxBytes > 0 {
		r = io.LimitReader(src, int64(maxBytes)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, models.NewValidationError("Unable to read uploaded file")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, models.NewOversizeError(maxBytes)
	}

	return &upload{
		Filename: header.Filename,
		Data:     data,
	}, nil
}

// UploadMedia handles POST /api/media/upload
// @Summary Upload media
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Success 201 {object} object{id=string,content_type=string,filename=string,size=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Router /media/upload [post]
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	userID, err := actingUser(c, c.FormValue("user_id"))
	if err != nil {
		return nil
	}

	file, err := readUpload(c, s.mediaService.MaxBytes(), "file")
	if err != nil {
		return respondErr(c, err)
	}

	media, err := s.mediaService.Upload(c.UserContext(), service.UploadInput{
		UserID:   userID,
		Filename: file.Filename,
		Data:     file.Data,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":           media.ID,
		"content_type": media.ContentType,
		"filename":     media.Filename,
		"size":         media.Size,
		"url":          "/api/media/" + media.ID,
	})
}

// GetMedia handles GET /api/media/:id and serves the stored bytes.
func (s *Server) GetMedia(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	media, err := s.mediaService.Get(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}

	c.Set(fiber.HeaderContentType, service.ServableContentType(media.ContentType))
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.Send(media.Data)
}
