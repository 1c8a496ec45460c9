package server

import (
	"levelup/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// FeatureFlagsResponse is the body of GET /api/feature-flags.
type FeatureFlagsResponse struct {
	Raw       map[string]string `json:"raw"`
	Evaluated map[string]bool   `json:"evaluated"`
	UserID    string            `json:"user_id,omitempty"`
}

// GetFeatureFlags reports the configured flags and the state each known flag
// has for the caller, or for ?user_id= when anonymous. Percentage rollouts
// evaluate to off without a user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		userID = c.Query("user_id")
	}

	return c.JSON(FeatureFlagsResponse{
		Raw:       s.featureFlags.Raw(),
		Evaluated: s.featureFlags.Effective(userID),
		UserID:    userID,
	})
}
