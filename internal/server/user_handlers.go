package server

import (
	"levelup/internal/models"
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	searchLimit      = 20
	leaderboardLimit = 20
)

// userSearchResult is the public subset of a user in search results.
type userSearchResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Level    int    `json:"level"`
}

// GetUser handles GET /api/user/:id
// @Summary Get user profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /user/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PATCH /api/user/:id
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /user/{id} [patch]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := actingUser(c, id); err != nil {
		return nil
	}

	var req struct {
		Name                *string  `json:"name"`
		Avatar              *string  `json:"avatar"`
		AvatarURL           *string  `json:"avatar_url"`
		Bio                 *string  `json:"bio"`
		Goals               []string `json:"goals"`
		ActivityLevel       *string  `json:"activity_level"`
		OnboardingCompleted *bool    `json:"onboarding_completed"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	avatar := req.Avatar
	if avatar == nil {
		avatar = req.AvatarURL
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), id, service.UpdateProfileInput{
		Name:                req.Name,
		Avatar:              avatar,
		Bio:                 req.Bio,
		Goals:               req.Goals,
		ActivityLevel:       req.ActivityLevel,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}

// SearchUsers handles GET /api/users/search?q=
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page := parsePagination(c, searchLimit)
	users, err := s.userService.Search(c.UserContext(), c.Query("q"), min(page.Limit, searchLimit))
	if err != nil {
		return respondErr(c, err)
	}

	results := make([]userSearchResult, 0, len(users))
	for _, u := range users {
		results = append(results, userSearchResult{
			ID:       u.ID,
			Name:     u.Name,
			Username: u.Username,
			Avatar:   u.Avatar,
			Level:    u.Level,
		})
	}
	return c.JSON(fiber.Map{"users": results})
}

// GetLeaderboard handles GET /api/users/leaderboard
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	page := parsePagination(c, leaderboardLimit)
	users, err := s.userService.Leaderboard(c.UserContext(), min(page.Limit, leaderboardLimit))
	if err != nil {
		return respondErr(c, err)
	}

	entries := make([]fiber.Map, 0, len(users))
	for i, u := range users {
		entries = append(entries, fiber.Map{
			"rank":        i + 1,
			"id":          u.ID,
			"name":        u.Name,
			"username":    u.Username,
			"avatar":      u.Avatar,
			"level":       u.Level,
			"xp":          u.XP,
			"streak_days": u.StreakDays,
		})
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}

// GetUserStats handles GET /api/user/:id/stats
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.userService.Stats(c.UserContext(), id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(stats)
}

// AddXP handles POST /api/user/:id/add-xp
// @Summary Award XP
// @Description Adds XP to a user and carries any level-ups.
// @Tags progression
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body object{amount=int,source=string} true "Award"
// @Success 200 {object} models.Progress
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /user/{id}/add-xp [post]
func (s *Server) AddXP(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := actingUser(c, id); err != nil {
		return nil
	}

	var req struct {
		Amount *int   `json:"amount"`
		Source string `json:"source"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Amount == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("amount is required"))
	}
	source := req.Source
	if source == "" {
		source = service.XPSourceManual
	}

	progress, err := s.progressionService.AwardXP(c.UserContext(), id, *req.Amount, source)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(progress)
}
