package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"levelup/internal/auth"
	"levelup/internal/models"
	"levelup/internal/repository"
	"levelup/internal/validation"
)

const invalidCredentials = "Invalid email or password"

// registerAttempts bounds retries when a username is taken between lookup and insert.
const registerAttempts = 3

// AuthService handles registration and login.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.User
	Token string
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	base := usernameBase(name, email)
	for attempt := 0; attempt < registerAttempts; attempt++ {
		existing, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError("User already exists")
		}

		taken, err := s.users.UsernamesWithPrefix(ctx, base)
		if err != nil {
			return nil, err
		}

		user := &models.User{
			Name:     name,
			Email:    email,
			Username: nextUsername(base, taken),
			Password: hash,
		}
		err = s.users.Create(ctx, user)
		if err == nil {
			return s.issue(user)
		}
		if models.StatusFor(err) != 409 {
			return nil, err
		}
	}
	return nil, models.NewConflictError("User already exists")
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Hash anyway so a missing account costs the same as a wrong password.
		_ = auth.CheckPassword(dummyHash(), password)
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// dummyHash is compared against when the email is unknown.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("levelup-login-timing")
	return hash
})

// usernameBase is the lowercased alphanumerics of the first word of name,
// falling back to the email local part and then "user".
func usernameBase(name, email string) string {
	for _, candidate := range []string{firstWord(name), strings.SplitN(email, "@", 2)[0]} {
		if base := alnumLower(candidate); base != "" {
			return base
		}
	}
	return "user"
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func alnumLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nextUsername returns base, or base followed by the smallest free counter.
func nextUsername(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
