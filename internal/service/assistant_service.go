package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"levelup/internal/assistant"
	"levelup/internal/featureflags"
	"levelup/internal/middleware"
	"levelup/internal/models"
	"levelup/internal/observability"
	"levelup/internal/repository"

	"github.com/google/uuid"
)

// contextTurns is how much of the session is sent to the model.
const contextTurns = 20

// AssistantService runs coach conversations and keeps their history.
type AssistantService struct {
	history repository.AssistantRepository
	users   repository.UserRepository
	client  assistant.Client
	flags   *featureflags.Manager
	now     func() time.Time
}

type ChatInput struct {
	UserID    string
	SessionID string
	Message   string
}

// ChatReply is the coach's answer for a session.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func NewAssistantService(
	history repository.AssistantRepository,
	users repository.UserRepository,
	client assistant.Client,
	flags *featureflags.Manager,
) *AssistantService {
	return &AssistantService{history: history, users: users, client: client, flags: flags, now: time.Now}
}

func (s *AssistantService) Chat(ctx context.Context, in ChatInput) (*ChatReply, error) {
	text := strings.TrimSpace(in.Message)
	if in.UserID == "" || text == "" {
		return nil, models.NewValidationError("user_id and message are required")
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	prior, err := s.history.History(ctx, in.UserID, sessionID, contextTurns)
	if err != nil {
		return nil, err
	}

	question := &models.AssistantMessage{
		UserID:    in.UserID,
		SessionID: sessionID,
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: s.now(),
	}
	reply := s.generate(ctx, in.UserID, append(prior, *question))

	// The answer is stamped once generation returns and never before the question.
	answeredAt := s.now()
	if answeredAt.Before(question.CreatedAt) {
		answeredAt = question.CreatedAt
	}
	answer := &models.AssistantMessage{
		UserID:    in.UserID,
		SessionID: sessionID,
		Role:      models.RoleAssistant,
		Content:   reply,
		CreatedAt: answeredAt,
	}

	if err := s.history.Append(ctx, question, answer); err != nil {
		return nil, err
	}
	return &ChatReply{Response: reply, SessionID: sessionID}, nil
}

// generate asks the model for a reply and falls back to a canned answer on
// any failure.
func (s *AssistantService) generate(ctx context.Context, userID string, turns []models.AssistantMessage) string {
	if s.client == nil || !s.flags.EnabledOr(featureflags.AssistantLLM, userID, featureflags.Defaults[featureflags.AssistantLLM]) {
		observability.AssistantReplies.WithLabelValues("fallback").Inc()
		return assistant.FallbackReply
	}

	reply, err := s.client.GenerateReply(ctx, turns)
	if err == nil && strings.TrimSpace(reply) != "" {
		observability.AssistantReplies.WithLabelValues("llm").Inc()
		return reply
	}

	if err != nil && !errors.Is(err, assistant.ErrNotConfigured) {
		middleware.Logger.WarnContext(ctx, "assistant reply failed, using fallback",
			slog.String("user_id", userID), slog.String("error", err.Error()))
	}
	observability.AssistantReplies.WithLabelValues("fallback").Inc()
	return assistant.FallbackReply
}

// History returns stored turns oldest first. An empty sessionID spans all sessions.
func (s *AssistantService) History(ctx context.Context, userID, sessionID string, limit int) ([]models.AssistantMessage, error) {
	msgs, err := s.history.History(ctx, userID, sessionID, limit)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []models.AssistantMessage{}
	}
	return msgs, nil
}
