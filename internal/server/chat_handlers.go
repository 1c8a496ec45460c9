package server

import (
	"levelup/internal/middleware"
	"levelup/internal/models"
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetChatRooms handles GET /api/social/chat-rooms?user_id=
// @Summary List joined chat rooms
// @Tags chat
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} object{rooms=[]models.ChatRoom}
// @Router /social/chat-rooms [get]
func (s *Server) GetChatRooms(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		userID = middleware.CurrentUserID(c)
	}
	if userID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	rooms, err := s.chatService.ListRooms(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

// CreateChatRoom handles POST /api/social/chat-room/create
// @Summary Create chat room
// @Description The creator is joined to the room automatically.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,category=string,type=string,creator_id=string} true "Room"
// @Success 201 {object} models.ChatRoom
// @Failure 400 {object} models.ErrorResponse
// @Router /social/chat-room/create [post]
func (s *Server) CreateChatRoom(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Type        string `json:"type"`
		CreatorID   string `json:"creator_id"`
		UserID      string `json:"user_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	claimed := req.CreatorID
	if claimed == "" {
		claimed = req.UserID
	}
	creatorID, err := actingUser(c, claimed)
	if err != nil {
		return nil
	}

	room, err := s.chatService.CreateRoom(c.UserContext(), service.CreateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Type:        req.Type,
		CreatorID:   creatorID,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// JoinChatRoom handles POST /api/social/join-room
func (s *Server) JoinChatRoom(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
		RoomID string `json:"room_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}

	if err := s.chatService.Join(c.UserContext(), userID, req.RoomID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Joined"})
}

// InviteToRoom handles POST /api/social/invite and POST /api/chat-room/invite
func (s *Server) InviteToRoom(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"user_id"`
		RoomID    string `json:"room_id"`
		InviteeID string `json:"invitee_id"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	inviterID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}

	if err := s.chatService.Invite(c.UserContext(), service.InviteInput{
		InviterID: inviterID,
		RoomID:    req.RoomID,
		InviteeID: req.InviteeID,
	}); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Invited"})
}

// GetRoomMembers handles GET /api/chat-room/:id/members
func (s *Server) GetRoomMembers(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	members, err := s.chatService.Members(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"members": members})
}

// GetChatMessages handles GET /api/chat-room/:id/messages
func (s *Server) GetChatMessages(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	messages, err := s.chatService.ListMessages(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// PostChatMessage handles POST /api/chat-room/message
// @Summary Post chat message
// @Tags chat
// @Accept json
// @Produce json
// @Param request body object{user_id=string,room_id=string,message=string,type=string} true "Message"
// @Success 201 {object} models.ChatMessage
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /chat-room/message [post]
func (s *Server) PostChatMessage(c *fiber.Ctx) error {
	var req struct {
		UserID  string `json:"user_id"`
		RoomID  string `json:"room_id"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}

	msg, err := s.chatService.PostMessage(c.UserContext(), service.PostMessageInput{
		UserID:  userID,
		RoomID:  req.RoomID,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
