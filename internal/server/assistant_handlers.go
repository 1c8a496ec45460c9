package server

import (
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

const chatHistoryLimit = 100

// AssistantChat handles POST /api/chat
// @Summary Ask the coach
// @Description Replies with the model's answer, or a static fallback when the model is unavailable.
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body object{user_id=string,session_id=string,message=string} true "Question"
// @Success 200 {object} service.ChatReply
// @Failure 400 {object} models.ErrorResponse
// @Router /chat [post]
func (s *Server) AssistantChat(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"user_id"`
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}

	reply, err := s.assistantService.Chat(c.UserContext(), service.ChatInput{
		UserID:    userID,
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(reply)
}

// GetChatHistory handles GET /api/user/:id/chat-history?session_id=
func (s *Server) GetChatHistory(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, chatHistoryLimit)
	messages, err := s.assistantService.History(c.UserContext(), id, c.Query("session_id"), page.Limit)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// CompleteOnboarding handles POST /api/onboarding
// @Summary Complete onboarding
// @Description Stores the questionnaire. XP is only awarded the first time.
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.OnboardingInput true "Questionnaire"
// @Success 200 {object} service.OnboardingResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /onboarding [post]
func (s *Server) CompleteOnboarding(c *fiber.Ctx) error {
	var req service.OnboardingInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}
	req.UserID = userID

	result, err := s.onboardingService.Complete(c.UserContext(), req)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(result)
}
