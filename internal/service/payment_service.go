package service

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"time"

	"levelup/internal/cache"
	"levelup/internal/models"
	"levelup/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// billingPeriod is the length of one simulated subscription period.
const billingPeriod = 30 * 24 * time.Hour

//go:embed plans.yaml
var plansYAML []byte

type planCatalog struct {
	Plans []models.Plan `yaml:"plans"`
}

// LoadPlans parses the embedded plan catalog.
func LoadPlans() ([]models.Plan, error) {
	var catalog planCatalog
	if err := yaml.Unmarshal(plansYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}
	return catalog.Plans, nil
}

// PaymentService is a placeholder billing flow. Checkout sessions are
// simulated and activation is explicit.
type PaymentService struct {
	subs       repository.SubscriptionRepository
	users      repository.UserRepository
	cache      *cache.Store
	publicKey  string
	successURL string
	now        func() time.Time
}

// PaymentConfig is what clients need to render the plan picker.
type PaymentConfig struct {
	PublicKey string        `json:"publicKey"`
	Plans     []models.Plan `json:"plans"`
}

type CheckoutInput struct {
	UserID     string
	PlanID     string
	SuccessURL string
}

func NewPaymentService(
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	store *cache.Store,
	publicKey, successURL string,
) *PaymentService {
	return &PaymentService{
		subs:       subs,
		users:      users,
		cache:      store,
		publicKey:  publicKey,
		successURL: successURL,
		now:        time.Now,
	}
}

func (s *PaymentService) Plans(ctx context.Context) ([]models.Plan, error) {
	var plans []models.Plan
	err := s.cache.Aside(ctx, cache.PlanCatalogKey, &plans, cache.PlanCatalogTTL, func() error {
		loaded, err := LoadPlans()
		if err != nil {
			return models.NewInternalError(err)
		}
		plans = loaded
		return nil
	})
	return plans, err
}

func (s *PaymentService) Config(ctx context.Context) (*PaymentConfig, error) {
	plans, err := s.Plans(ctx)
	if err != nil {
		return nil, err
	}
	return &PaymentConfig{PublicKey: s.publicKey, Plans: plans}, nil
}

func (s *PaymentService) plan(ctx context.Context, id string) (*models.Plan, error) {
	plans, err := s.Plans(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.ToLower(strings.TrimSpace(id))
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i], nil
		}
	}
	return nil, models.NewNotFoundError("Plan", id)
}

// Checkout opens a simulated checkout session for the plan.
func (s *PaymentService) Checkout(ctx context.Context, in CheckoutInput) (*models.CheckoutSession, error) {
	if in.UserID == "" || in.PlanID == "" {
		return nil, models.NewValidationError("user_id and plan_id are required")
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	plan, err := s.plan(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}

	base := in.SuccessURL
	if base == "" {
		base = s.successURL
	}
	target, err := url.Parse(base)
	if err != nil {
		return nil, models.NewValidationError("success_url is not a valid URL")
	}

	sessionID := "cs_sim_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	q := target.Query()
	q.Set("session_id", sessionID)
	target.RawQuery = q.Encode()

	return &models.CheckoutSession{
		SessionID: sessionID,
		URL:       target.String(),
		PlanID:    plan.ID,
		Simulated: true,
	}, nil
}

// Activate starts a fresh 30-day period on the plan and updates the user's tier.
func (s *PaymentService) Activate(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	if userID == "" || planID == "" {
		return nil, models.NewValidationError("user_id and plan_id are required")
	}
	plan, err := s.plan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	start := s.now().UTC()
	sub := &models.Subscription{
		UserID:             userID,
		PlanTier:           plan.ID,
		Status:             models.SubscriptionActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   start.Add(billingPeriod),
	}
	if err := s.subs.Activate(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *PaymentService) Cancel(ctx context.Context, userID string) (*models.Subscription, error) {
	if userID == "" {
		return nil, models.NewValidationError("user_id is required")
	}
	return s.subs.Cancel(ctx, userID)
}

// Status reports the user's plan, defaulting to free with no subscription.
func (s *PaymentService) Status(ctx context.Context, userID string) (*models.SubscriptionStatus, error) {
	sub, err := s.subs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &models.SubscriptionStatus{PlanTier: models.TierFree, Status: models.SubscriptionNone}, nil
	}
	end := sub.CurrentPeriodEnd
	return &models.SubscriptionStatus{
		HasSubscription:   sub.Status == models.SubscriptionActive,
		PlanTier:          sub.PlanTier,
		Status:            sub.Status,
		CurrentPeriodEnd:  &end,
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}, nil
}
