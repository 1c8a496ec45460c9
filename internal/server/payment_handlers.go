package server

import (
	"levelup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPaymentConfig handles GET /api/payments/config
// @Summary Payment configuration
// @Tags payments
// @Produce json
// @Success 200 {object} service.PaymentConfig
// @Router /payments/config [get]
func (s *Server) GetPaymentConfig(c *fiber.Ctx) error {
	cfg, err := s.paymentService.Config(c.UserContext())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(cfg)
}

// GetPlans handles GET /api/payments/plans
func (s *Server) GetPlans(c *fiber.Ctx) error {
	plans, err := s.paymentService.Plans(c.UserContext())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}

type planRequest struct {
	UserID     string `json:"user_id"`
	PlanID     string `json:"plan_id"`
	PlanTier   string `json:"plan_tier"`
	SuccessURL string `json:"success_url"`
}

func (r planRequest) plan() string {
	if r.PlanID != "" {
		return r.PlanID
	}
	return r.PlanTier
}

// CreateCheckoutSession handles POST /api/payments/create-checkout-session.
// No payment provider is called; the session is simulated.
func (s *Server) CreateCheckoutSession(c *fiber.Ctx) error {
	var req planRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}

	session, err := s.paymentService.Checkout(c.UserContext(), service.CheckoutInput{
		UserID:     userID,
		PlanID:     req.plan(),
		SuccessURL: req.SuccessURL,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(session)
}

// PaymentWebhook handles POST /api/payments/webhook. Events are acknowledged
// and otherwise ignored.
func (s *Server) PaymentWebhook(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"received": true})
}

// GetSubscription handles GET /api/payments/subscription/:user_id
func (s *Server) GetSubscription(c *fiber.Ctx) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return nil
	}

	status, err := s.paymentService.Status(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(status)
}

// ActivateSubscription handles POST /api/payments/activate
func (s *Server) ActivateSubscription(c *fiber.Ctx) error {
	var req planRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}

	sub, err := s.paymentService.Activate(c.UserContext(), userID, req.plan())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscription activated", "subscription": sub})
}

// CancelSubscription handles POST /api/payments/cancel
func (s *Server) CancelSubscription(c *fiber.Ctx) error {
	var req planRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		return nil
	}

	sub, err := s.paymentService.Cancel(c.UserContext(), userID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subscription will cancel at period end", "subscription": sub})
}
