package server

import (
	"levelup/internal/middleware"
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/social/feed?user_id=
// @Summary Social feed
// @Description Newest posts with author, like and comment counts. isLiked is computed for user_id.
// @Tags social
// @Produce json
// @Param user_id query string false "Viewer ID"
// @Success 200 {object} object{posts=[]models.FeedPost}
// @Router /social/feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	viewer := c.Query("user_id")
	if viewer == "" {
		viewer = middleware.CurrentUserID(c)
	}

	posts, err := s.socialService.Feed(c.UserContext(), viewer)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreatePost handles POST /api/social/post
// @Summary Create post
// @Tags social
// @Accept json
// @Produce json
// @Param request body object{user_id=string,content=string,type=string,media=[]string} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /social/post [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		UserID  string   `json:"user_id"`
		Content string   `json:"content"`
		Type    string   `json:"type"`
		Media   []string `json:"media"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := requireUserID(c, req.UserID)
	if err != nil {
		return nil
	}

	post, err := s.socialService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  userID,
		Content: req.Content,
		Type:    req.Type,
		Media:   req.Media,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

type postActionRequest struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}

// ToggleLike handles POST /api/social/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req postActionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := requireUserID(c, req.UserID)
	if err != nil {
		return nil
	}

	result, err := s.socialService.ToggleLike(c.UserContext(), userID, req.PostID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(result)
}

// AddComment handles POST /api/social/comment
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req struct {
		UserID  string `json:"user_id"`
		PostID  string `json:"post_id"`
		Content string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := requireUserID(c, req.UserID)
	if err != nil {
		return nil
	}

	comment, err := s.socialService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID:  userID,
		PostID:  req.PostID,
		Content: req.Content,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// GetComments handles GET /api/social/post/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.socialService.ListComments(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// SharePost handles POST /api/social/share. Shares are not deduplicated.
func (s *Server) SharePost(c *fiber.Ctx) error {
	var req postActionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if _, err := actingUser(c, req.UserID); err != nil {
		return nil
	}

	shares, err := s.socialService.Share(c.UserContext(), req.PostID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"share_count": shares})
}
