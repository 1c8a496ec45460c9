package server

import (
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

const scanListLimit = 50

// SubmitScan handles POST /api/scan/:type
// @Summary Submit a scan
// @Description Analyzes an uploaded body, face or food photo and awards XP.
// @Tags scans
// @Accept multipart/form-data
// @Produce json
// @Param type path string true "Scan type" Enums(body, face, food)
// @Param file formData file true "Photo"
// @Param user_id formData string true "User ID"
// @Success 200 {object} service.ScanResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 413 {object} models.ErrorResponse
// @Router /scan/{type} [post]
func (s *Server) SubmitScan(c *fiber.Ctx) error {
	userID, err := requireUserID(c, c.FormValue("user_id"))
	if err != nil {
		return nil
	}

	file, err := readUpload(c, s.mediaService.MaxBytes(), "file", "image")
	if err != nil {
		return respondErr(c, err)
	}

	result, err := s.scanService.SubmitScan(c.UserContext(), service.SubmitScanInput{
		UserID:   userID,
		ScanType: c.Params("type"),
		Data:     file.Data,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(result)
}

// GetUserScans handles GET /api/user/:id/scans?scan_type=
func (s *Server) GetUserScans(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, scanListLimit)
	scans, err := s.scanService.ListScans(c.UserContext(), id, c.Query("scan_type"), page.Limit)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"scans": scans})
}

// GetScanStats handles GET /api/user/:id/scan-stats
func (s *Server) GetScanStats(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.scanService.Stats(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(stats)
}
