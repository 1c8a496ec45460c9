package server

import (
	"levelup/internal/middleware"
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReminder handles POST /api/reminders
// @Summary Create reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param request body service.CreateReminderInput true "Reminder"
// @Success 201 {object} models.Reminder
// @Failure 400 {object} models.ErrorResponse
// @Router /reminders [post]
func (s *Server) CreateReminder(c *fiber.Ctx) error {
	var req service.CreateReminderInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}
	req.UserID = userID

	reminder, err := s.reminderService.Create(c.UserContext(), req)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reminder)
}

// GetUserReminders handles GET /api/reminders/user/:id
func (s *Server) GetUserReminders(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	reminders, err := s.reminderService.List(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

// UpdateReminder handles PATCH /api/reminders/:id
func (s *Server) UpdateReminder(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateReminderInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	reminder, err := s.reminderService.Update(c.UserContext(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(reminder)
}

// DeleteReminder handles DELETE /api/reminders/:id
func (s *Server) DeleteReminder(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.reminderService.Delete(c.UserContext(), id, middleware.CurrentUserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reminder deleted"})
}
