package server

import (
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

const notificationListLimit = 50

// CreateNotification handles POST /api/notifications
func (s *Server) CreateNotification(c *fiber.Ctx) error {
	var req struct {
		UserID  string `json:"user_id"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	n, err := s.notificationService.Create(c.UserContext(), service.CreateNotificationInput{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// GetUserNotifications handles GET /api/notifications/user/:id
// @Summary List notifications
// @Description Newest first, with the user's unread total.
// @Tags notifications
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} service.NotificationList
// @Router /notifications/user/{id} [get]
func (s *Server) GetUserNotifications(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, notificationListLimit)
	list, err := s.notificationService.List(c.UserContext(), id, min(page.Limit, notificationListLimit))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(list)
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(c.UserContext(), id); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "read": true})
}

// MarkAllNotificationsRead handles PATCH /api/notifications/user/:id/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := actingUser(c, id); err != nil {
		return nil
	}

	updated, err := s.notificationService.MarkAllRead(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}
